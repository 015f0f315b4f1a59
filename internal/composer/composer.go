// Package composer turns matched intents into outbound send requests.
// Composition never fails upward; degraded paths produce a shorter
// request list instead of an error.
package composer

import (
	"context"
	"fmt"

	"github.com/cricbot/cricbot-go/internal/content"
	apperrors "github.com/cricbot/cricbot-go/internal/errors"
	"github.com/cricbot/cricbot-go/internal/intent"
	"github.com/cricbot/cricbot-go/internal/logger"
	"github.com/cricbot/cricbot-go/internal/messenger"
	"github.com/cricbot/cricbot-go/internal/tables"
)

const (
	latestMenuText  = "What would you like the latest on?"
	echoReplyText   = "Thanks for sharing! I can only read text for now, but I appreciate it."
	jokeSignature   = "More where that came from, just ask!"
	maxTopicResults = 5
)

// ContentFetcher is the slice of the content client the composer uses.
type ContentFetcher interface {
	Search(ctx context.Context, query string, pageSize int) ([]content.PublicationSummary, error)
	Latest(ctx context.Context, topicQuery string, n int) ([]content.PublicationSummary, error)
}

// Composer builds reply payloads from intents using the content API and
// the static tables.
type Composer struct {
	fetcher  ContentFetcher
	terms    *tables.TermTable
	jokes    *tables.JokeTable
	pageSize int
	logger   *logger.Logger
}

// New creates a composer. pageSize caps topic fetches and is clamped to
// the template's five-card limit.
func New(fetcher ContentFetcher, terms *tables.TermTable, jokes *tables.JokeTable, pageSize int, log *logger.Logger) *Composer {
	if pageSize < 1 || pageSize > maxTopicResults {
		pageSize = maxTopicResults
	}
	return &Composer{
		fetcher:  fetcher,
		terms:    terms,
		jokes:    jokes,
		pageSize: pageSize,
		logger:   log.WithModule("composer"),
	}
}

// Compose maps one intent to the ordered send requests that answer it.
// Content failures degrade to a typing-off indicator so the recipient
// is not left watching a stuck typing bubble.
func (c *Composer) Compose(ctx context.Context, recipientID string, in intent.Intent) []*messenger.SendRequest {
	switch in.Kind {
	case intent.KindPlayerLookup:
		return c.playerLookup(ctx, recipientID, in.Term)
	case intent.KindExplainer:
		return c.explainer(recipientID, in.Term)
	case intent.KindJoke:
		return c.joke(recipientID)
	case intent.KindLatestTopicMenu:
		return c.latestMenu(recipientID)
	case intent.KindQuickReplyTopic:
		return c.topicNews(ctx, recipientID, in.Topic)
	case intent.KindNextMatchInfo:
		return c.nextMatches(recipientID)
	case intent.KindEcho:
		return []*messenger.SendRequest{messenger.NewText(recipientID, echoReplyText)}
	default:
		c.logger.WithField("kind", string(in.Kind)).Warn("Unknown intent kind dropped")
		return nil
	}
}

func (c *Composer) playerLookup(ctx context.Context, recipientID, term string) []*messenger.SendRequest {
	requests := []*messenger.SendRequest{
		messenger.NewSenderAction(recipientID, messenger.ActionTypingOn),
	}

	summaries, err := c.fetcher.Search(ctx, term, 1)
	if err != nil || len(summaries) == 0 {
		if err == nil {
			err = apperrors.ErrEmptyResult
		}
		c.logger.WithError(err).WithField("term", term).Error("Player lookup failed")
		return append(requests, messenger.NewSenderAction(recipientID, messenger.ActionTypingOff))
	}

	return append(requests, messenger.NewGenericTemplate(recipientID, []messenger.Element{
		summaryElement(summaries[0]),
	}))
}

func (c *Composer) explainer(recipientID, term string) []*messenger.SendRequest {
	requests := []*messenger.SendRequest{
		messenger.NewSenderAction(recipientID, messenger.ActionTypingOn),
	}

	definition, err := c.terms.Lookup(term)
	if err != nil {
		return append(requests, messenger.NewText(recipientID,
			fmt.Sprintf("Sorry, I haven't learnt what %q means yet.", term)))
	}
	return append(requests, messenger.NewText(recipientID, definition))
}

func (c *Composer) joke(recipientID string) []*messenger.SendRequest {
	joke := c.jokes.Pick()
	text := joke.Question + "\n" + joke.Answer + "\n\n" + jokeSignature
	return []*messenger.SendRequest{
		messenger.NewSenderAction(recipientID, messenger.ActionTypingOn),
		messenger.NewText(recipientID, text),
	}
}

func (c *Composer) latestMenu(recipientID string) []*messenger.SendRequest {
	replies := make([]messenger.QuickReply, 0, len(intent.Topics))
	for _, topic := range intent.Topics {
		replies = append(replies, messenger.QuickReply{
			ContentType: "text",
			Title:       topic.Title,
			Payload:     topic.Payload,
		})
	}
	return []*messenger.SendRequest{
		messenger.NewQuickReplyMenu(recipientID, latestMenuText, replies),
	}
}

func (c *Composer) topicNews(ctx context.Context, recipientID string, topic intent.Topic) []*messenger.SendRequest {
	requests := []*messenger.SendRequest{
		messenger.NewSenderAction(recipientID, messenger.ActionTypingOn),
	}

	summaries, err := c.fetcher.Latest(ctx, topic.Query, c.pageSize)
	if err != nil || len(summaries) == 0 {
		if err == nil {
			err = apperrors.ErrEmptyResult
		}
		c.logger.WithError(err).WithField("topic", topic.Query).Error("Topic fetch failed")
		return append(requests, messenger.NewSenderAction(recipientID, messenger.ActionTypingOff))
	}

	if len(summaries) > maxTopicResults {
		summaries = summaries[:maxTopicResults]
	}
	elements := make([]messenger.Element, 0, len(summaries))
	for _, s := range summaries {
		elements = append(elements, summaryElement(s))
	}
	return append(requests, messenger.NewGenericTemplate(recipientID, elements))
}

func (c *Composer) nextMatches(recipientID string) []*messenger.SendRequest {
	return []*messenger.SendRequest{
		messenger.NewListTemplate(recipientID, upcomingFixtures()),
	}
}

func summaryElement(s content.PublicationSummary) messenger.Element {
	element := messenger.Element{
		Title:    s.Title,
		Subtitle: s.Subtitle,
		ItemURL:  s.URL,
		ImageURL: s.ImageURL,
	}
	if s.URL != "" {
		element.Buttons = []messenger.Button{{
			Type:  "web_url",
			Title: "Read more",
			URL:   s.URL,
		}}
	}
	return element
}
