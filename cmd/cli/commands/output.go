package commands

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/jakechorley/church-check-in/pkg/core/services"
)

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	return t
}

// renderRecords prints one row per check-in that will be (or was) submitted
func renderRecords(out io.Writer, prepared *services.PreparedCheckIn) {
	names := make(map[string]string, len(prepared.Volunteers))
	for _, v := range prepared.Volunteers {
		names[v.PersonID] = v.Name
	}
	startsAt := eventTimeStarts(prepared.Match)

	t := newTable(out)
	t.SetTitle(fmt.Sprintf("Plan %s / event period %s", prepared.Match.PlanID, prepared.EventPeriodID))
	t.AppendHeader(table.Row{"Person", "Name", "Event Time", "Starts At", "Location"})
	for _, r := range prepared.Records {
		t.AppendRow(table.Row{r.PersonID, names[r.PersonID], r.EventTimeID, startsAt[r.EventTimeID], r.LocationID})
	}
	t.AppendFooter(table.Row{"", "", "", "Total", len(prepared.Records)})
	t.Render()
}

// renderReport prints the submission totals and a row per failed record
func renderReport(out io.Writer, report *services.SubmissionReport) {
	t := newTable(out)
	t.AppendHeader(table.Row{"Submitted", "Failed", "Total"})
	t.AppendRow(table.Row{len(report.Submitted), len(report.Failed), report.Total()})
	t.Render()

	if len(report.Failed) == 0 {
		return
	}

	failed := newTable(out)
	failed.SetTitle("Failed check-ins")
	failed.AppendHeader(table.Row{"Person", "Event Time", "Error"})
	for _, f := range report.Failed {
		failed.AppendRow(table.Row{f.Record.PersonID, f.Record.EventTimeID, f.Err.Error()})
	}
	failed.Render()
}

// renderMatch prints each event time of the matched period next to the plan time it matched
func renderMatch(out io.Writer, result *services.EventMatch) {
	planTimes := make(map[string]string, len(result.Match.ServiceTimes))
	for planTimeID, startsAt := range result.Match.ServiceTimes {
		planTimes[startsAt] = planTimeID
	}

	starts := make([]string, 0, len(result.Match.EventTimes))
	for startsAt := range result.Match.EventTimes {
		starts = append(starts, startsAt)
	}
	sort.Strings(starts)

	t := newTable(out)
	t.SetTitle(fmt.Sprintf("Plan %s / event period %s", result.Match.PlanID, result.Period.ID))
	t.AppendHeader(table.Row{"Starts At", "Event Time", "Plan Time"})
	for _, startsAt := range starts {
		t.AppendRow(table.Row{startsAt, result.Match.EventTimes[startsAt], planTimes[startsAt]})
	}
	t.Render()
}

// renderNamed prints an id and name table
func renderNamed(out io.Writer, title string, rows [][2]string) {
	t := newTable(out)
	t.SetTitle(title)
	t.AppendHeader(table.Row{"ID", "Name"})
	for _, r := range rows {
		t.AppendRow(table.Row{r[0], r[1]})
	}
	t.Render()
}

func eventTimeStarts(match *services.PlanMatch) map[string]string {
	starts := make(map[string]string, len(match.EventTimes))
	for startsAt, id := range match.EventTimes {
		starts[id] = startsAt
	}
	return starts
}
