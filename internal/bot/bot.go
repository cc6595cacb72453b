package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/jsseok/futseeker/internal/futbin"
	"github.com/jsseok/futseeker/internal/watch"
	"github.com/jsseok/futseeker/internal/watchlist"
	"github.com/jsseok/futseeker/logger"
)

const (
	commandPrefix = "!"

	// maxResults caps how many search rows are kept per requester
	maxResults = 10
)

// Reply is what a command handler produces. Either Text or Embed is set.
type Reply struct {
	Text  string
	Embed *discordgo.MessageEmbed
}

func text(format string, v ...interface{}) *Reply {
	return &Reply{Text: fmt.Sprintf(format, v...)}
}

// Bot is the Discord front end. Commands share the watchlist store and
// marketplace client with the background evaluation job.
type Bot struct {
	session  *discordgo.Session
	market   futbin.Market
	store    *watchlist.Store
	sessions *Sessions
	ev       *watch.Evaluator
	log      *logger.Logger
}

// New creates the bot and registers its message handler
func New(token string, market futbin.Market, store *watchlist.Store, sessions *Sessions, ev *watch.Evaluator) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	b := &Bot{
		session:  session,
		market:   market,
		store:    store,
		sessions: sessions,
		ev:       ev,
		log:      logger.ForComponent("bot"),
	}

	session.AddHandler(b.onMessage)
	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	return b, nil
}

// Open connects to the Discord gateway
func (b *Bot) Open() error {
	if err := b.session.Open(); err != nil {
		return err
	}
	b.log.Info().Msg("Bot is online")
	return nil
}

// Close disconnects from the gateway
func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == s.State.User.ID || m.Author.Bot {
		return
	}

	reply := b.Handle(context.Background(), m.Author.ID, m.Content)
	if reply == nil {
		return
	}

	var err error
	if reply.Embed != nil {
		_, err = s.ChannelMessageSendEmbed(m.ChannelID, reply.Embed)
	} else {
		_, err = s.ChannelMessageSend(m.ChannelID, reply.Text)
	}
	if err != nil {
		b.log.Warn().Err(err).Msg("Failed to send reply")
	}
}

// Handle dispatches one command and returns the reply, or nil when the
// message is not a command. A bad command never takes the bot down; every
// failure path turns into an error reply.
func (b *Bot) Handle(ctx context.Context, userID, content string) *Reply {
	if !strings.HasPrefix(content, commandPrefix) {
		return nil
	}

	fields := strings.Fields(strings.TrimPrefix(content, commandPrefix))
	if len(fields) == 0 {
		return nil
	}
	command := strings.ToLower(fields[0])
	args := fields[1:]

	switch command {
	case "search":
		return b.handleSearch(ctx, userID, strings.Join(args, " "))
	case "select":
		if len(args) != 1 {
			return text("Usage: `!select <number>`")
		}
		return b.handleSelect(ctx, userID, args[0])
	case "add":
		if len(args) != 2 {
			return text("Usage: `!add <number> <desired price>`")
		}
		return b.handleAdd(ctx, userID, args[0], args[1])
	case "watchlist":
		return b.handleWatchlist()
	case "check":
		return b.handleCheck(ctx)
	case "help":
		return b.handleHelp()
	default:
		return nil
	}
}

func (b *Bot) handleSearch(ctx context.Context, userID, query string) *Reply {
	if query == "" {
		return text("Usage: `!search <player name>`")
	}

	players, err := b.market.Search(ctx, query)
	if err != nil {
		b.log.Warn().Err(err).Str("query", query).Msg("Search failed")
		return text("Search failed, try again later.")
	}
	if len(players) == 0 {
		return text("No results for %q.", query)
	}

	if len(players) > maxResults {
		players = players[:maxResults]
	}
	if err := b.sessions.Put(userID, players); err != nil {
		b.log.Warn().Err(err).Msg("Failed to store search session")
		return text("Search failed, try again later.")
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Search results for %q", query),
		Color: 0x00ff00,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Use !select <number> to view the current price",
		},
	}
	for i, p := range players {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("%d. %s (%d) %s", i+1, p.Name, p.Rating(), p.Version),
			Value:  fmt.Sprintf("`!select %d` to check the price", i+1),
			Inline: false,
		})
	}
	return &Reply{Embed: embed}
}

func (b *Bot) handleSelect(ctx context.Context, userID, indexArg string) *Reply {
	players, ok := b.sessions.Get(userID)
	if !ok {
		return text("No pending results. Run `!search <player name>` first.")
	}

	index, reply := parseIndex(indexArg, len(players))
	if reply != nil {
		return reply
	}

	player := players[index-1]
	pageURL := b.market.ResolveURL(player.PagePath())

	priceText := "price unavailable"
	if price, err := b.market.Price(ctx, pageURL); err == nil {
		priceText = fmt.Sprintf("%d coins", price)
	} else {
		b.log.Warn().Err(err).Str("url", pageURL).Msg("Price unavailable")
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s price check", player.Name),
		Color: 0xffd700,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Current price", Value: priceText, Inline: false},
			{Name: "Detail page", Value: pageURL, Inline: false},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Use !add %d <desired price> to watch this player", index),
		},
	}
	return &Reply{Embed: embed}
}

func (b *Bot) handleAdd(ctx context.Context, userID, indexArg, priceArg string) *Reply {
	players, ok := b.sessions.Get(userID)
	if !ok {
		return text("No pending results. Run `!search <player name>` first.")
	}

	index, reply := parseIndex(indexArg, len(players))
	if reply != nil {
		return reply
	}

	desired, err := strconv.Atoi(priceArg)
	if err != nil || desired < 0 {
		return text("Desired price must be a non-negative whole number.")
	}

	player := players[index-1]
	item := watchlist.Item{
		Name:         player.Name,
		URL:          b.market.ResolveURL(player.PagePath()),
		DesiredPrice: desired,
	}
	if err := b.store.Append(item); err != nil {
		b.log.Error().Err(err).Msg("Failed to persist watchlist")
		return text("Could not save the watchlist, try again later.")
	}

	// A fresh search is required before the next selection
	b.sessions.Clear(userID)

	return text("Added %s to the watchlist at <= %d coins.", player.Name, desired)
}

func (b *Bot) handleWatchlist() *Reply {
	items := b.store.Items()
	if len(items) == 0 {
		return text("The watchlist is empty.")
	}

	var sb strings.Builder
	sb.WriteString("Current watchlist:\n")
	for i, item := range items {
		fmt.Fprintf(&sb, "%d. %s - wanted <= %d coins\n", i+1, item.Name, item.DesiredPrice)
	}
	return &Reply{Text: sb.String()}
}

func (b *Bot) handleCheck(ctx context.Context) *Reply {
	results := b.ev.Run(ctx)
	if len(results) == 0 {
		return text("The watchlist is empty.")
	}

	var sb strings.Builder
	sb.WriteString("Watchlist check:\n")
	for _, r := range results {
		sb.WriteString(r.Summary())
		sb.WriteString("\n")
	}
	return &Reply{Text: sb.String()}
}

func (b *Bot) handleHelp() *Reply {
	return &Reply{Text: "Commands:\n" +
		"`!search <player name>` - search Futbin\n" +
		"`!select <number>` - show the current price of a search result\n" +
		"`!add <number> <desired price>` - add a result to the watchlist\n" +
		"`!watchlist` - show the watchlist\n" +
		"`!check` - check all watched prices now\n"}
}

// parseIndex validates a 1-based selection against the stored result count.
// On failure it returns a reply naming the valid range.
func parseIndex(arg string, count int) (int, *Reply) {
	index, err := strconv.Atoi(arg)
	if err != nil || index < 1 || index > count {
		return 0, text("Invalid selection: choose a number between 1 and %d.", count)
	}
	return index, nil
}
