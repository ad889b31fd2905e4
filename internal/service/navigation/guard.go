package navigation

import (
	"errors"
	"fmt"

	"github.com/vertextoedge/linkguard/internal/domain"
	"github.com/vertextoedge/linkguard/internal/domain/event"
	"github.com/vertextoedge/linkguard/internal/domain/vo"
	"github.com/vertextoedge/linkguard/internal/port"
	"github.com/vertextoedge/linkguard/internal/service/classifier"
	"github.com/vertextoedge/linkguard/internal/service/opener"
	"github.com/vertextoedge/linkguard/internal/service/orchestrator"
	"go.uber.org/zap"
)

// Guard decides every navigation attempt made by an embedded view
type Guard struct {
	domains      port.DomainRegistry
	settings     port.SettingsSource
	classifier   *classifier.Classifier
	opener       *opener.Opener
	orchestrator *orchestrator.Orchestrator
	events       event.EventDispatcher
	logger       *zap.Logger
}

// New creates a new Guard
func New(
	domains port.DomainRegistry,
	settings port.SettingsSource,
	c *classifier.Classifier,
	o *opener.Opener,
	orch *orchestrator.Orchestrator,
	events event.EventDispatcher,
	logger *zap.Logger,
) *Guard {
	if events == nil {
		events = event.NewNullDispatcher()
	}
	return &Guard{
		domains:      domains,
		settings:     settings,
		classifier:   c,
		opener:       o,
		orchestrator: orch,
		events:       events,
		logger:       logger,
	}
}

// Classify resolves the view's trusted prefix and classifies the URL
// without side effects.
func (g *Guard) Classify(req domain.NavigationRequest) domain.Classification {
	return g.classifier.Classify(req.URL, g.prefixFor(req.DomainIndex))
}

// HandleNavigation classifies req and carries out the decision on view.
// The returned error only reports a failure to start the chosen action;
// the decision itself is always made.
func (g *Guard) HandleNavigation(view port.View, req domain.NavigationRequest) (domain.Decision, error) {
	if view == nil {
		return domain.DecisionExternal, domain.ErrNilView
	}

	decision := g.Classify(req).Decision()
	g.events.Dispatch(event.NewNavigationClassified(req, decision))

	switch decision {
	case domain.DecisionNavigate:
		if err := view.NavigateInPlace(req.URL); err != nil {
			return decision, fmt.Errorf("navigate in place: %w", err)
		}
	case domain.DecisionDownload:
		cfg := g.settings.DownloadConfig()
		if _, err := g.orchestrator.Intercept(view, req.URL, cfg); err != nil {
			return decision, fmt.Errorf("intercept download: %w", err)
		}
	default:
		g.opener.Open(view, req.URL)
	}

	return decision, nil
}

// prefixFor returns the trusted prefix of a domain, or an empty prefix
// when the domain is unknown or its URL is unusable.
func (g *Guard) prefixFor(index int64) vo.DomainPrefix {
	raw, err := g.domains.TrustedPrefix(index)
	if err != nil {
		if errors.Is(err, domain.ErrDomainNotFound) {
			g.logger.Debug("navigation from unknown domain", zap.Int64("domain_index", index))
		} else {
			g.logger.Warn("failed to resolve trusted prefix",
				zap.Int64("domain_index", index),
				zap.Error(err))
		}
		return vo.EmptyDomainPrefix()
	}

	prefix, err := vo.NewDomainPrefix(raw)
	if err != nil {
		g.logger.Warn("invalid trusted prefix",
			zap.Int64("domain_index", index),
			zap.String("prefix", raw),
			zap.Error(err))
		return vo.EmptyDomainPrefix()
	}
	return prefix
}
