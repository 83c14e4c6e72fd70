package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"

	"github.com/Alturino/pos/internal/config"
	inErrors "github.com/Alturino/pos/internal/errors"
	"github.com/Alturino/pos/internal/log"
	"github.com/Alturino/pos/report/pkg/response"
)

// RunReport prints the day report for date (YYYY-MM-DD, empty for today) to w.
func RunReport(c context.Context, cfg *config.Config, date string, w io.Writer) error {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "main RunReport").
		Str(log.KeyDate, date).
		Logger()
	c = logger.WithContext(c)

	reportService, closeFn, err := newReportService(c, cfg, nil)
	if err != nil {
		return err
	}
	defer closeFn()

	day := civil.DateOf(time.Now().In(reportService.Location()))
	if date != "" {
		day, err = civil.ParseDate(date)
		if err != nil {
			err = fmt.Errorf("failed parsing date=%s with error=%w: %w", date, inErrors.ErrInvalidDate, err)
			logger.Error().Err(err).Msg(err.Error())
			return err
		}
	}

	report, err := reportService.FindDayReport(c, day)
	if err != nil {
		logger.Warn().Err(err).Msg(err.Error())
	}
	return PrintReport(w, report, reportService.Location(), err != nil)
}

// PrintReport writes the totals followed by one row per transaction, newest first.
func PrintReport(w io.Writer, report response.DayReport, loc *time.Location, failed bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "date\t%s\n", report.Date)
	fmt.Fprintf(tw, "total sold\t%s\n", report.TotalSold.StringFixed(2))
	fmt.Fprintf(tw, "orders\t%d\n", report.OrderCount)
	fmt.Fprintf(tw, "average order\t%s\n", report.AverageOrderValue().StringFixed(2))
	if failed || report.OrderCount == 0 {
		fmt.Fprintln(tw, "no data for this date")
		return tw.Flush()
	}

	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "time\tid\titems\ttotal")
	for _, trx := range report.Transactions {
		items := 0
		for _, line := range trx.Items {
			items += line.Quantity
		}
		fmt.Fprintf(
			tw,
			"%s\t%s\t%d\t%s\n",
			trx.CreatedAt.In(loc).Format("15:04:05"),
			trx.ID,
			items,
			trx.TotalAmount.StringFixed(2),
		)
	}
	return tw.Flush()
}
