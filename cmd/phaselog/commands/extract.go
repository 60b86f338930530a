package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/livp123/phaselog/internal/extractor"
	"github.com/livp123/phaselog/internal/metrics"
	"github.com/livp123/phaselog/internal/report"
	"github.com/livp123/phaselog/internal/source"
	"github.com/livp123/phaselog/internal/utils/fmtutil"
	"github.com/livp123/phaselog/internal/utils/logger"
)

type extractFlags struct {
	logPath     string
	stdout      bool
	suffix      string
	startPolicy string
	nameRule    string
	metricsFile string
}

func newExtractCmd() *cobra.Command {
	f := &extractFlags{}
	cmd := &cobra.Command{
		Use:   "extract <pid> [output-name]",
		Short: "Write the phase report for one process",
		// Short: 生成单个进程的相位报告
		Long: `Scan the kernel log for events of <pid> and write them to
<output-name> plus the configured suffix (.csv by default).
扫描内核日志中 <pid> 的事件，并写入 <output-name> 加后缀（默认 .csv）。

Examples:
  phaselog extract 1234 run1
  phaselog extract 1234 run1 --log /var/log/kern.log.1
  journalctl -k | phaselog extract 1234 --log - --stdout`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args, f)
		},
	}

	cmd.Flags().StringVarP(&f.logPath, "log", "l", "", `Log file to scan, "-" for stdin (default from config: /var/log/kern.log)`)
	cmd.Flags().BoolVar(&f.stdout, "stdout", false, "Write the report to stdout instead of a file")
	cmd.Flags().StringVar(&f.suffix, "suffix", "", "Suffix appended to the output name (default from config: .csv)")
	cmd.Flags().StringVar(&f.startPolicy, "start-policy", "", "Repeated start lines: first, repeat or strict")
	cmd.Flags().StringVar(&f.nameRule, "name-rule", "", "Process name cut: last-field or after-first-field")
	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus textfile metrics to this path")
	return cmd
}

func runExtract(cmd *cobra.Command, args []string, f *extractFlags) error {
	ctx := cmd.Context()
	log := logger.Get(ctx)
	cfg := configFrom(ctx)

	pid := args[0]
	if !f.stdout && len(args) < 2 {
		return fmt.Errorf("missing output name (or use --stdout)")
	}
	if strings.TrimSpace(pid) == "" {
		log.Warnf("[WARN] Empty pid, the report will only contain the shift section header")
	}

	// Flags win over the config file
	// 命令行标志优先于配置文件
	if f.startPolicy != "" {
		cfg.Extract.StartPolicy = f.startPolicy
	}
	if f.nameRule != "" {
		cfg.Extract.NameRule = f.nameRule
	}
	opts, err := cfg.ExtractOptions()
	if err != nil {
		return err
	}
	logPath := cfg.Extract.LogPath
	if f.logPath != "" {
		logPath = f.logPath
	}
	suffix := cfg.Extract.OutputSuffix
	if cmd.Flags().Changed("suffix") {
		suffix = f.suffix
	}
	metricsFile := cfg.Metrics.Textfile
	if f.metricsFile != "" {
		metricsFile = f.metricsFile
	}

	src, err := source.Open(logPath, cmd.InOrStdin())
	if err != nil {
		return err
	}
	defer src.Close()

	var sink report.Sink
	if f.stdout {
		sink = report.Stream(cmd.OutOrStdout(), "stdout")
	} else {
		sink, err = report.Create(report.OutputPath(args[1], suffix))
		if err != nil {
			return err
		}
	}

	log.Debugf("Scanning %s for pid %s (start policy %s, name rule %s)", logPath, pid, opts.StartPolicy, opts.NameRule)
	started := time.Now()
	out := &countingWriter{w: sink}
	res, runErr := extractor.New(pid, opts, log).Run(src, out)
	if runErr == nil {
		runErr = sink.Commit()
	} else {
		sink.Abort()
		runErr = fmt.Errorf("extract pid %s from %s: %w", pid, logPath, runErr)
	}

	if metricsFile != "" {
		collector := metrics.NewCollector()
		collector.Record(res, runErr)
		if err := collector.WriteTextfile(metricsFile); err != nil {
			log.Warnf("[WARN] Failed to write metrics to %s: %v", metricsFile, err)
		}
	}

	if runErr != nil {
		return runErr
	}
	log.Infof("Report for pid %s written to %s (%s, ticks: %s, shifts: %s, lines: %s, ended: %v, took %s)",
		pid, sink.Name(), fmtutil.FormatBytes(out.n),
		fmtutil.FormatCount(len(res.Ticks)), fmtutil.FormatCount(len(res.Shifts)), fmtutil.FormatCount(res.Lines),
		res.Terminated, fmtutil.FormatDuration(time.Since(started)))
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
