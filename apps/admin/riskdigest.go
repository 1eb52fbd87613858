package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/mail"
	"strconv"

	"github.com/pkg/errors"

	"github.com/trezcool/schoolinsights/core"
	"github.com/trezcool/schoolinsights/core/analytics"
	"github.com/trezcool/schoolinsights/core/records"
)

const riskDigestTemplate = "risk_digest"

type riskDigestData struct {
	Threshold float64
	Teachers  []records.TeacherRecord
}

// riskDigest emails the high attrition risk worklist of the whole school, with the list attached as CSV.
func (cli *commandLine) riskDigest(to string) error {
	recipients, err := mail.ParseAddressList(to)
	if err != nil {
		return errors.Wrap(err, "parsing recipients")
	}

	tables, err := cli.loadTables(context.Background())
	if err != nil {
		return err
	}
	settings := cli.engine.Settings()
	worklist := analytics.HighRiskWorklist(tables.Teachers, settings.WorklistThreshold, settings.WorklistLimit)

	msg := &core.EmailMessage{
		Subject:      fmt.Sprintf("High attrition risk: %d teacher(s)", len(worklist)),
		TemplateName: riskDigestTemplate,
		TemplateData: riskDigestData{Threshold: settings.WorklistThreshold, Teachers: worklist},
	}
	for _, addr := range recipients {
		msg.To = append(msg.To, *addr)
	}

	attachment, err := worklistCSV(worklist)
	if err != nil {
		return err
	}
	if err = msg.Attach(attachment, "risk_worklist.csv", "text/csv"); err != nil {
		return err
	}

	cli.mailSvc.SendMessages(msg)
	cli.mailSvc.Wait()
	_, _ = fmt.Fprintf(cli.out, "risk digest sent to %d recipient(s): %d teacher(s)\n", len(msg.To), len(worklist))
	return nil
}

func worklistCSV(worklist []records.TeacherRecord) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	rows := [][]string{{
		records.ColTeacherID, records.ColName, records.ColSubject, records.ColRisk,
		records.ColCompliance, records.ColTeachingScore, records.ColLateCount, records.ColStatus,
	}}
	for _, tr := range worklist {
		rows = append(rows, []string{
			tr.TeacherID,
			tr.Name,
			tr.Subject,
			strconv.FormatFloat(tr.AttritionRisk, 'f', -1, 64),
			strconv.FormatFloat(tr.ComplianceScore, 'f', -1, 64),
			strconv.FormatFloat(tr.TeachingScore, 'f', -1, 64),
			strconv.Itoa(tr.LateCount),
			string(tr.Status),
		})
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, errors.Wrap(err, "writing worklist csv")
	}
	return buf, nil
}
