// Package conversation implements the per-user dialogue state machine
// that turns interpreted messages into analysis runs and replies.
package conversation

import (
	"context"
	"time"

	"reviewbot/internal/analysis"
	"reviewbot/internal/common/logger"
	"reviewbot/internal/common/metrics"
	"reviewbot/internal/format"
	"reviewbot/internal/intent"
	"reviewbot/internal/models"
)

// Sender delivers one outbound reply to a user.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// Analyzer produces an analysis result for one product. LoadCached
// reads the cached or stored result without invoking the tool, and
// returns nil when no analysis exists yet.
type Analyzer interface {
	AnalyzeProduct(ctx context.Context, productID string) (*analysis.Result, error)
	LoadCached(ctx context.Context, productID string) (*models.AnalysisResult, error)
}

// Engine drives the conversation state machine. The dispatcher
// guarantees messages from one user arrive here one at a time.
type Engine struct {
	sessions *SessionStore
	analyzer Analyzer
	sender   Sender
	logger   logger.Logger
}

func NewEngine(sessions *SessionStore, analyzer Analyzer, sender Sender, log logger.Logger) *Engine {
	return &Engine{
		sessions: sessions,
		analyzer: analyzer,
		sender:   sender,
		logger:   log.WithFields(map[string]interface{}{"component": "conversationEngine"}),
	}
}

// transition is the single state write a message produces. A nil
// context clears the session context.
type transition struct {
	state   models.SessionState
	context map[string]string
}

// HandleMessage processes one inbound message under the user's current
// session state and writes the resulting state exactly once.
func (e *Engine) HandleMessage(ctx context.Context, userID, body string) {
	session := e.sessions.Get(userID)
	state := session.State
	start := time.Now()

	var next transition
	switch state {
	case models.StateIdle:
		next = e.handleIdle(ctx, userID, body)
	case models.StateAwaitingProduct:
		next = e.handleAwaitingProduct(ctx, userID, body)
	case models.StateAwaitingComparisonFirst:
		next = e.handleAwaitingComparisonFirst(ctx, userID, body)
	case models.StateAwaitingComparisonSecond:
		next = e.handleAwaitingComparisonSecond(ctx, userID, body, session.Context)
	default:
		next = e.recover(ctx, userID, state)
	}

	e.sessions.Update(userID, next.state, next.context)
	metrics.MessageHandlingDuration.WithLabelValues(string(state)).Observe(time.Since(start).Seconds())
}

func (e *Engine) handleIdle(ctx context.Context, userID, body string) transition {
	if intent.IsGreeting(body) {
		metrics.MessagesReceived.WithLabelValues("greeting").Inc()
		e.send(ctx, userID, MsgWelcome)
		return transition{state: models.StateIdle}
	}

	it := intent.Interpret(body)
	metrics.MessagesReceived.WithLabelValues(string(it.Command)).Inc()

	switch it.Command {
	case models.CommandAnalyze:
		e.runAnalysis(ctx, userID, it.ProductID)
		return transition{state: models.StateIdle}

	case models.CommandStats:
		e.runStats(ctx, userID, it.ProductID)
		return transition{state: models.StateIdle}

	case models.CommandAskForProduct:
		e.send(ctx, userID, MsgAskForProduct)
		return transition{state: models.StateAwaitingProduct}

	case models.CommandInvalidProduct:
		e.send(ctx, userID, MsgErrInvalidProduct)
		return transition{state: models.StateIdle}

	case models.CommandAskForComparison:
		if it.ProductID != "" && it.SecondProductID != "" {
			e.runComparison(ctx, userID, it.ProductID, it.SecondProductID)
			return transition{state: models.StateIdle}
		}
		e.send(ctx, userID, MsgAskForFirstProduct)
		return transition{state: models.StateAwaitingComparisonFirst}

	case models.CommandHelp:
		e.send(ctx, userID, HelpText(it.HelpTopic))
		return transition{state: models.StateIdle}

	default:
		e.send(ctx, userID, MsgUnknown)
		return transition{state: models.StateIdle}
	}
}

func (e *Engine) handleAwaitingProduct(ctx context.Context, userID, body string) transition {
	metrics.MessagesReceived.WithLabelValues("followup").Inc()

	productID := intent.ExtractProductID(body)
	if productID == "" {
		e.send(ctx, userID, MsgInvalidProductHint)
		return transition{state: models.StateAwaitingProduct}
	}

	e.runAnalysis(ctx, userID, productID)
	return transition{state: models.StateIdle}
}

func (e *Engine) handleAwaitingComparisonFirst(ctx context.Context, userID, body string) transition {
	metrics.MessagesReceived.WithLabelValues("followup").Inc()

	productID := intent.ExtractProductID(body)
	if productID == "" {
		e.send(ctx, userID, MsgInvalidProductHint)
		return transition{state: models.StateAwaitingComparisonFirst}
	}

	e.send(ctx, userID, MsgAskForSecondProduct)
	return transition{
		state:   models.StateAwaitingComparisonSecond,
		context: map[string]string{models.ContextFirstProduct: productID},
	}
}

func (e *Engine) handleAwaitingComparisonSecond(ctx context.Context, userID, body string, sessionContext map[string]string) transition {
	metrics.MessagesReceived.WithLabelValues("followup").Inc()

	productID := intent.ExtractProductID(body)
	if productID == "" {
		e.send(ctx, userID, MsgInvalidProductHint)
		// Keep context so the stored first product survives the retry.
		return transition{state: models.StateAwaitingComparisonSecond, context: sessionContext}
	}

	firstID, ok := sessionContext[models.ContextFirstProduct]
	if !ok || firstID == "" {
		e.logger.Warn("comparison context missing first product", map[string]interface{}{
			"userId": userID,
		})
		e.send(ctx, userID, MsgErrGeneral)
		return transition{state: models.StateIdle}
	}

	e.runComparison(ctx, userID, firstID, productID)
	return transition{state: models.StateIdle}
}

func (e *Engine) recover(ctx context.Context, userID string, state models.SessionState) transition {
	metrics.MessagesReceived.WithLabelValues("unrecognized_state").Inc()
	e.logger.Warn("unrecognized session state, resetting", map[string]interface{}{
		"userId": userID,
		"state":  string(state),
	})
	e.send(ctx, userID, MsgRecovery)
	e.send(ctx, userID, MsgWelcome)
	return transition{state: models.StateIdle}
}

func (e *Engine) runAnalysis(ctx context.Context, userID, productID string) {
	e.send(ctx, userID, MsgAnalyzing)

	result, err := e.analyzer.AnalyzeProduct(ctx, productID)
	if err != nil {
		e.logger.WithError(err).Error("analysis failed", map[string]interface{}{
			"userId":    userID,
			"productId": productID,
		})
		e.send(ctx, userID, MsgErrAnalysis)
		return
	}

	switch result.Outcome {
	case analysis.OutcomeNotInDataset:
		e.send(ctx, userID, MsgNotInDataset)
		e.send(ctx, userID, MsgFindProductID)
	case analysis.OutcomeNoReviews:
		e.send(ctx, userID, MsgErrNoReviews)
	default:
		e.send(ctx, userID, format.Analysis(result.Data))
	}
}

func (e *Engine) runStats(ctx context.Context, userID, productID string) {
	// Stats are a quick read: serve the cached analysis when one exists
	// and fall back to a fresh run otherwise.
	cached, err := e.analyzer.LoadCached(ctx, productID)
	if err != nil {
		e.logger.WithError(err).Warn("cached stats lookup failed", map[string]interface{}{
			"userId":    userID,
			"productId": productID,
		})
	}
	if cached != nil {
		e.send(ctx, userID, format.Stats(cached))
		return
	}

	result, err := e.analyzer.AnalyzeProduct(ctx, productID)
	if err != nil {
		e.logger.WithError(err).Error("stats run failed", map[string]interface{}{
			"userId":    userID,
			"productId": productID,
		})
		e.send(ctx, userID, MsgErrGeneral)
		return
	}

	if result.Outcome != analysis.OutcomeOK {
		e.send(ctx, userID, MsgErrNoReviews)
		return
	}

	e.send(ctx, userID, format.Stats(result.Data))
}

func (e *Engine) runComparison(ctx context.Context, userID, firstID, secondID string) {
	e.send(ctx, userID, MsgComparing)

	results := make([]*analysis.Result, 0, 2)
	for _, productID := range []string{firstID, secondID} {
		result, err := e.analyzer.AnalyzeProduct(ctx, productID)
		if err != nil {
			e.logger.WithError(err).Error("comparison failed", map[string]interface{}{
				"userId":    userID,
				"productId": productID,
			})
			e.send(ctx, userID, MsgErrGeneral)
			return
		}
		if result.Outcome != analysis.OutcomeOK {
			e.send(ctx, userID, MsgErrNoReviews)
			return
		}
		results = append(results, result)
	}

	e.send(ctx, userID, format.Comparison(results[0].Data, results[1].Data))
}

func (e *Engine) send(ctx context.Context, to, body string) {
	if err := e.sender.Send(ctx, to, body); err != nil {
		metrics.RepliesSent.WithLabelValues("error").Inc()
		e.logger.WithError(err).Error("failed to send reply", map[string]interface{}{
			"userId": to,
		})
		return
	}
	metrics.RepliesSent.WithLabelValues("ok").Inc()
}
