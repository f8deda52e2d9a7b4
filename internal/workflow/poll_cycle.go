package workflow

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/workflow"

	"github.com/edvin/mailwatch/internal/activity"
	"github.com/edvin/mailwatch/internal/poller"
)

// PollCycleWorkflow runs one poll cycle: it lists the monitored domains and
// reconciles them one at a time. A failing domain is recorded and the cycle
// moves on; domains are not retried within a cycle since the next scheduled
// cycle polls them again.
func PollCycleWorkflow(ctx workflow.Context) (*poller.CycleReport, error) {
	logger := workflow.GetLogger(ctx)

	var cycleID string
	if err := workflow.SideEffect(ctx, func(workflow.Context) any {
		return poller.NewCycleID()
	}).Get(&cycleID); err != nil {
		return nil, fmt.Errorf("generate cycle id: %w", err)
	}

	report := &poller.CycleReport{CycleID: cycleID, Started: workflow.Now(ctx)}

	listCtx := activityCtx(ctx, 30*time.Second, 3)
	var monitored activity.MonitoredDomains
	if err := workflow.ExecuteActivity(listCtx, "ListMonitoredDomains").Get(ctx, &monitored); err != nil {
		return nil, fmt.Errorf("list monitored domains: %w", err)
	}
	report.Skipped = monitored.Skipped

	domainCtx := activityCtx(ctx, 5*time.Minute, 1)
	for _, d := range monitored.Domains {
		var dr poller.DomainReport
		err := workflow.ExecuteActivity(domainCtx, "ReconcileDomain", activity.ReconcileDomainParams{
			DomainID: d.ID,
			CycleID:  cycleID,
		}).Get(ctx, &dr)
		if err != nil {
			logger.Warn("reconcile domain failed", "domain", d.Name, "cycle_id", cycleID, "error", err)
			dr = poller.DomainReport{
				DomainID: d.ID,
				Domain:   d.Name,
				Failed:   1,
				Units:    []poller.UnitResult{{Error: err.Error()}},
			}
		}
		report.Failed += dr.Failed
		report.Domains = append(report.Domains, dr)
	}

	report.Finished = workflow.Now(ctx)

	finishCtx := activityCtx(ctx, 10*time.Second, 2)
	if err := workflow.ExecuteActivity(finishCtx, "FinishCycle", *report).Get(ctx, nil); err != nil {
		logger.Warn("publish cycle summary failed", "cycle_id", cycleID, "error", err)
	}

	return report, nil
}
