package bot

import (
	"context"
	"strings"
	"time"

	"github.com/PabloBorneman/whatsapp-bot-railway/internal/catalog"
	"github.com/PabloBorneman/whatsapp-bot-railway/internal/genai"
	"github.com/PabloBorneman/whatsapp-bot-railway/internal/logger"
	"github.com/PabloBorneman/whatsapp-bot-railway/internal/sanitize"
	"github.com/PabloBorneman/whatsapp-bot-railway/internal/session"
	"github.com/PabloBorneman/whatsapp-bot-railway/internal/textnorm"
)

// CatalogProvider yields the catalog snapshot to answer against.
type CatalogProvider interface {
	Current() *catalog.Catalog
}

// Metrics receives resolution events. Implementations must be safe for
// concurrent use; a nil Metrics disables recording.
type Metrics interface {
	RecordRuleMatch(rule string)
	RecordGenerativeCall(provider string, duration time.Duration)
	RecordGenerativeError()
}

// Processor turns one incoming message into one reply. Messages of a
// single conversation must be processed one at a time; the dispatcher
// guarantees that ordering.
type Processor struct {
	catalogs CatalogProvider
	sessions session.Store
	answerer genai.Answerer
	rules    []Rule
	log      *logger.Logger
	metrics  Metrics
}

// NewProcessor wires the resolution cascade. answerer may be nil when
// no generative provider is configured; unrecognized queries then get
// the apology reply.
func NewProcessor(catalogs CatalogProvider, sessions session.Store, answerer genai.Answerer, log *logger.Logger, metrics Metrics) *Processor {
	return &Processor{
		catalogs: catalogs,
		sessions: sessions,
		answerer: answerer,
		rules:    DefaultRules(),
		log:      log.WithModule("bot"),
		metrics:  metrics,
	}
}

// Process resolves one message. An empty or whitespace-only message
// yields an empty reply, meaning nothing should be sent.
func (p *Processor) Process(ctx context.Context, conversationID, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	q := &Query{
		ConversationID: conversationID,
		Text:           text,
		Norm:           textnorm.Normalize(text),
		Catalog:        p.catalogs.Current(),
		Sessions:       p.sessions,
	}

	for _, rule := range p.rules {
		reply, handled, err := rule.Apply(ctx, q)
		if err != nil {
			p.log.WithError(err).WithField("rule", rule.Name()).
				Error("Rule failed")
			return Apology
		}
		if handled {
			if p.metrics != nil {
				p.metrics.RecordRuleMatch(rule.Name())
			}
			p.log.WithField("rule", rule.Name()).Debug("Rule matched")
			return reply
		}
	}

	return p.generativeReply(ctx, q)
}

// generativeReply asks the configured backend, sanitizes its answer,
// and updates the conversation state from what the answer mentions.
func (p *Processor) generativeReply(ctx context.Context, q *Query) string {
	if p.answerer == nil {
		p.log.Warn("No generative provider configured")
		return Apology
	}

	start := time.Now()
	raw, err := p.answerer.Answer(ctx, q.Text, string(q.Catalog.Raw()))
	if err != nil {
		if p.metrics != nil {
			p.metrics.RecordGenerativeError()
		}
		p.log.WithError(err).Error("Generative backend failed")
		return Apology
	}
	if p.metrics != nil {
		p.metrics.RecordGenerativeCall(p.answerer.Provider().String(), time.Since(start))
	}

	res := sanitize.Clean(raw, q.Catalog)

	// Session updates are best effort: a broken store must not cost
	// the user an already generated answer.
	if res.CourseTitle != "" {
		if err := q.Sessions.SetLastCourse(ctx, q.ConversationID, res.CourseTitle); err != nil {
			p.log.WithError(err).Warn("Failed to save last course")
		}
	}
	if res.Link != "" {
		if err := q.Sessions.SetLastLink(ctx, q.ConversationID, res.Link); err != nil {
			p.log.WithError(err).Warn("Failed to save last link")
		}
	}

	return res.Text
}
