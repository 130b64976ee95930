package metrics

import (
	"github.com/GianlucaGuarini/go-observable"
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	prometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"

	"boscoin.io/govern/lib/common/observer"
	"boscoin.io/govern/lib/proposal"
)

type GovernanceMetrics struct {
	Proposals      metrics.Counter
	LastProposalID metrics.Gauge

	Ballots      metrics.Counter
	BallotWeight metrics.Counter

	StatusChanges metrics.Counter
	Executions    metrics.Counter
}

// Observe updates the metrics by the events of the engine observer.
func (g *GovernanceMetrics) Observe(ob *observable.Observable) {
	ob.On(observer.EventProposalCreated, g.onProposalCreated)
	ob.On(observer.EventBallotCast, g.onBallotCast)
	ob.On(observer.EventProposalStatus, g.onProposalStatus)
	ob.On(observer.EventProposalExecuted, g.onProposalExecuted)
}

func (g *GovernanceMetrics) onProposalCreated(args ...interface{}) {
	p, ok := args[0].(*proposal.Proposal)
	if !ok {
		return
	}

	g.Proposals.Add(1)
	g.LastProposalID.Set(float64(p.ID))
}

func (g *GovernanceMetrics) onBallotCast(args ...interface{}) {
	if len(args) < 2 {
		return
	}
	b, ok := args[1].(proposal.Ballot)
	if !ok {
		return
	}

	g.Ballots.With(LabelVote, b.Vote.String()).Add(1)
	g.BallotWeight.With(LabelVote, b.Vote.String()).Add(float64(b.Weight))
}

func (g *GovernanceMetrics) onProposalStatus(args ...interface{}) {
	p, ok := args[0].(*proposal.Proposal)
	if !ok {
		return
	}

	g.StatusChanges.With(LabelStatus, p.Status.String()).Add(1)
}

func (g *GovernanceMetrics) onProposalExecuted(args ...interface{}) {
	g.Executions.Add(1)
}

func PromGovernanceMetrics(registerer stdprometheus.Registerer) *GovernanceMetrics {
	proposals := stdprometheus.NewCounterVec(stdprometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: GovernanceSubsystem,
		Name:      "proposals",
		Help:      "Number of created proposals.",
	}, []string{})
	lastProposalID := stdprometheus.NewGaugeVec(stdprometheus.GaugeOpts{
		Namespace: Namespace,
		Subsystem: GovernanceSubsystem,
		Name:      "last_proposal_id",
		Help:      "Id of the last created proposal.",
	}, []string{})
	ballots := stdprometheus.NewCounterVec(stdprometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: GovernanceSubsystem,
		Name:      "ballots",
		Help:      "Number of ballots by vote.",
	}, []string{LabelVote})
	ballotWeight := stdprometheus.NewCounterVec(stdprometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: GovernanceSubsystem,
		Name:      "ballot_weight",
		Help:      "Sum of the weight of the ballots by vote.",
	}, []string{LabelVote})
	statusChanges := stdprometheus.NewCounterVec(stdprometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: GovernanceSubsystem,
		Name:      "status_changes",
		Help:      "Number of proposal status changes by new status.",
	}, []string{LabelStatus})
	executions := stdprometheus.NewCounterVec(stdprometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: GovernanceSubsystem,
		Name:      "executions",
		Help:      "Number of executed proposals.",
	}, []string{})

	registerer.MustRegister(proposals, lastProposalID, ballots, ballotWeight, statusChanges, executions)

	return &GovernanceMetrics{
		Proposals:      prometheus.NewCounter(proposals),
		LastProposalID: prometheus.NewGauge(lastProposalID),
		Ballots:        prometheus.NewCounter(ballots),
		BallotWeight:   prometheus.NewCounter(ballotWeight),
		StatusChanges:  prometheus.NewCounter(statusChanges),
		Executions:     prometheus.NewCounter(executions),
	}
}

func NopGovernanceMetrics() *GovernanceMetrics {
	return &GovernanceMetrics{
		Proposals:      discard.NewCounter(),
		LastProposalID: discard.NewGauge(),
		Ballots:        discard.NewCounter(),
		BallotWeight:   discard.NewCounter(),
		StatusChanges:  discard.NewCounter(),
		Executions:     discard.NewCounter(),
	}
}
