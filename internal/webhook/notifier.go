package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dreamnet/dreamnet-backend/internal/logger"
	"github.com/dreamnet/dreamnet-backend/internal/utils"
)

// CocoonActiveNotification is the payload fanned out to Discord/Telegram when
// a cocoon reaches the active stage.
type CocoonActiveNotification struct {
	CocoonTitle     string
	DreamName       string
	Creator         string
	Score           int
	Tags            []string
	ContributionURL string
}

type discordConfig struct {
	WebhookURL string
	Enabled    bool
}

type telegramConfig struct {
	BotToken string
	ChatID   string
	Enabled  bool
}

type Notifier struct {
	log      *logger.Logger
	client   *http.Client
	discord  discordConfig
	telegram telegramConfig
}

// NewNotifier reads endpoint configuration from the environment. Channels
// without credentials stay disabled; an all-disabled notifier is valid and
// simply logs that nothing is configured.
func NewNotifier(log *logger.Logger) *Notifier {
	webhookURL := utils.GetEnv("DISCORD_WEBHOOK_URL", "", log)
	botToken := utils.GetEnv("TELEGRAM_BOT_TOKEN", "", log)
	chatID := utils.GetEnv("TELEGRAM_CHAT_ID", "", log)

	return &Notifier{
		log:    log.With("service", "WebhookNotifier"),
		client: &http.Client{Timeout: 10 * time.Second},
		discord: discordConfig{
			WebhookURL: webhookURL,
			Enabled:    webhookURL != "",
		},
		telegram: telegramConfig{
			BotToken: botToken,
			ChatID:   chatID,
			Enabled:  botToken != "" && chatID != "",
		},
	}
}

// NotifyCocoonActive delivers to every enabled channel. Failures are logged
// and swallowed so a webhook outage never fails the stage change that
// triggered it.
func (n *Notifier) NotifyCocoonActive(ctx context.Context, notification CocoonActiveNotification) {
	n.log.Info("Webhook trigger: cocoon reached active stage", "cocoon", notification.CocoonTitle)

	if !n.discord.Enabled && !n.telegram.Enabled {
		n.log.Warn("No webhook endpoints configured; set DISCORD_WEBHOOK_URL or TELEGRAM_BOT_TOKEN/TELEGRAM_CHAT_ID")
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	if n.discord.Enabled {
		g.Go(func() error {
			if err := n.sendDiscord(gctx, notification); err != nil {
				n.log.Warn("Discord webhook failed", "cocoon", notification.CocoonTitle, "error", err)
			}
			return nil
		})
	}
	if n.telegram.Enabled {
		g.Go(func() error {
			if err := n.sendTelegram(gctx, notification); err != nil {
				n.log.Warn("Telegram webhook failed", "cocoon", notification.CocoonTitle, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordEmbed struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Color       int                 `json:"color"`
	Fields      []discordEmbedField `json:"fields"`
	Footer      struct {
		Text string `json:"text"`
	} `json:"footer"`
	Timestamp string `json:"timestamp"`
}

func (n *Notifier) sendDiscord(ctx context.Context, notification CocoonActiveNotification) error {
	embed := discordEmbed{
		Title:       "🚀 New Cocoon is Active!",
		Description: fmt.Sprintf("**%s** is now ready for contributions!", notification.CocoonTitle),
		Color:       0x00ff88,
		Fields: []discordEmbedField{
			{Name: "Dream", Value: notification.DreamName, Inline: true},
			{Name: "Creator", Value: shortWallet(notification.Creator), Inline: true},
			{Name: "Dream Score", Value: fmt.Sprintf("%d/100", notification.Score), Inline: true},
			{Name: "Tags", Value: joinOrNone(notification.Tags), Inline: false},
			{Name: "How to Contribute", Value: fmt.Sprintf("[View Dream Details](%s)", notification.ContributionURL), Inline: false},
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	embed.Footer.Text = "Dream Network • Ready for collaboration"

	payload := map[string]any{
		"embeds":  []discordEmbed{embed},
		"content": "📢 A new cocoon is ready for contributors!",
	}
	return n.post(ctx, n.discord.WebhookURL, payload)
}

func (n *Notifier) sendTelegram(ctx context.Context, notification CocoonActiveNotification) error {
	message := fmt.Sprintf(
		"🚀 *New Cocoon is Active\\!*\n\n*%s* is now ready for contributions\\!\n\n🎯 *Dream:* %s\n👤 *Creator:* `%s\\.\\.\\.`\n⭐ *Score:* %d/100\n🏷️ *Tags:* %s\n\n[View Dream Details](%s)\n\nReady for collaboration\\! 🤝",
		escapeMarkdown(notification.CocoonTitle),
		escapeMarkdown(notification.DreamName),
		shortWalletRaw(notification.Creator),
		notification.Score,
		escapeMarkdown(joinOrNone(notification.Tags)),
		notification.ContributionURL,
	)

	payload := map[string]any{
		"chat_id":                  n.telegram.ChatID,
		"text":                     message,
		"parse_mode":               "MarkdownV2",
		"disable_web_page_preview": false,
	}
	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", n.telegram.BotToken)
	return n.post(ctx, url, payload)
}

func (n *Notifier) post(ctx context.Context, url string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned %s", resp.Status)
	}
	return nil
}

var markdownSpecials = regexp.MustCompile(`[_*\[\]()~` + "`" + `>#+=|{}.!-]`)

// escapeMarkdown escapes Telegram MarkdownV2 special characters.
func escapeMarkdown(text string) string {
	return markdownSpecials.ReplaceAllString(text, `\$0`)
}

func shortWallet(wallet string) string {
	return shortWalletRaw(wallet) + "..."
}

func shortWalletRaw(wallet string) string {
	if len(wallet) > 8 {
		return wallet[:8]
	}
	return wallet
}

func joinOrNone(tags []string) string {
	if len(tags) == 0 {
		return "None"
	}
	return strings.Join(tags, ", ")
}
