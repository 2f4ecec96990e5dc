package telegram

import (
	"context"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// BotAPI is the subset of *tgbotapi.BotAPI used by Client.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUserProfilePhotos(config tgbotapi.UserProfilePhotosConfig) (tgbotapi.UserProfilePhotos, error)
	GetFile(config tgbotapi.FileConfig) (tgbotapi.File, error)
}

type Client struct {
	api          BotAPI
	token        string
	fileEndpoint string
	httpClient   *http.Client
	logger       zerolog.Logger
}

// Price is one invoice line, amount in the smallest currency unit.
type Price struct {
	Label  string
	Amount int
}

type Invoice struct {
	ChatID         int64
	Title          string
	Description    string
	Payload        string
	ProviderToken  string
	StartParameter string
	Currency       string
	Prices         []Price
	PhotoURL       string
	PhotoWidth     int
	PhotoHeight    int
}

// webAppKeyboard is an inline keyboard whose buttons open a Mini App.
// tgbotapi v5 predates web_app buttons, so the markup is built here.
type webAppKeyboard struct {
	InlineKeyboard [][]webAppButton `json:"inline_keyboard"`
}

type webAppButton struct {
	Text   string     `json:"text"`
	WebApp webAppInfo `json:"web_app"`
}

type webAppInfo struct {
	URL string `json:"url"`
}

// NewBotAPI authorizes the bot token against Telegram.
func NewBotAPI(token string, debug bool) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("authorize bot: %w", err)
	}
	api.Debug = debug
	return api, nil
}

func NewClient(api BotAPI, token string, logger zerolog.Logger) *Client {
	return &Client{
		api:          api,
		token:        token,
		fileEndpoint: tgbotapi.FileEndpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// SendWebAppButton sends text with a single button that opens url as a Mini App.
func (c *Client) SendWebAppButton(chatID int64, text, buttonText, url string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = webAppKeyboard{
		InlineKeyboard: [][]webAppButton{{
			{Text: buttonText, WebApp: webAppInfo{URL: url}},
		}},
	}

	if _, err := c.api.Send(msg); err != nil {
		return fmt.Errorf("send web app button to %d: %w", chatID, err)
	}
	c.logger.Debug().Int64("chat_id", chatID).Str("url", url).Msg("Web app button sent")
	return nil
}

func (c *Client) SendText(chatID int64, text string) error {
	if _, err := c.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("send message to %d: %w", chatID, err)
	}
	return nil
}

func (c *Client) SendInvoice(inv Invoice) error {
	prices := make([]tgbotapi.LabeledPrice, 0, len(inv.Prices))
	for _, p := range inv.Prices {
		prices = append(prices, tgbotapi.LabeledPrice{Label: p.Label, Amount: p.Amount})
	}

	cfg := tgbotapi.NewInvoice(inv.ChatID, inv.Title, inv.Description, inv.Payload,
		inv.ProviderToken, inv.StartParameter, inv.Currency, prices)
	cfg.PhotoURL = inv.PhotoURL
	cfg.PhotoWidth = inv.PhotoWidth
	cfg.PhotoHeight = inv.PhotoHeight
	cfg.IsFlexible = false
	// a nil slice is serialized as null, which Telegram rejects
	cfg.SuggestedTipAmounts = []int{}

	if _, err := c.api.Send(cfg); err != nil {
		return fmt.Errorf("send invoice to %d: %w", inv.ChatID, err)
	}
	c.logger.Info().Int64("chat_id", inv.ChatID).Str("payload", inv.Payload).Msg("Invoice sent")
	return nil
}

// AnswerPreCheckout confirms or rejects a pre-checkout query.
func (c *Client) AnswerPreCheckout(queryID string, ok bool, errorMessage string) error {
	cfg := tgbotapi.PreCheckoutConfig{
		PreCheckoutQueryID: queryID,
		OK:                 ok,
		ErrorMessage:       errorMessage,
	}
	if _, err := c.api.Request(cfg); err != nil {
		return fmt.Errorf("answer pre-checkout %s: %w", queryID, err)
	}
	return nil
}

// ProfilePhotoFileID returns the file id of the largest size of the user's
// current profile photo, or "" when the user has none.
func (c *Client) ProfilePhotoFileID(userID int64) (string, error) {
	cfg := tgbotapi.NewUserProfilePhotos(userID)
	cfg.Limit = 1

	photos, err := c.api.GetUserProfilePhotos(cfg)
	if err != nil {
		return "", fmt.Errorf("get profile photos for %d: %w", userID, err)
	}
	if photos.TotalCount == 0 || len(photos.Photos) == 0 || len(photos.Photos[0]) == 0 {
		return "", nil
	}
	sizes := photos.Photos[0]
	return sizes[len(sizes)-1].FileID, nil
}

// FilePath resolves a file id to the path used for downloads.
func (c *Client) FilePath(fileID string) (string, error) {
	file, err := c.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return "", fmt.Errorf("get file %s: %w", fileID, err)
	}
	if file.FilePath == "" {
		return "", fmt.Errorf("get file %s: empty file path", fileID)
	}
	return file.FilePath, nil
}

// Download fetches a file by path. The URL embeds the bot token, so callers
// must proxy the body rather than redirecting clients to it.
func (c *Client) Download(ctx context.Context, filePath string) (*http.Response, error) {
	url := fmt.Sprintf(c.fileEndpoint, c.token, filePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	return resp, nil
}
