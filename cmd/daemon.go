package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/theirongolddev/moneymate/internal/cli"
	"github.com/theirongolddev/moneymate/internal/config"
	"github.com/theirongolddev/moneymate/internal/daemon"
	"github.com/theirongolddev/moneymate/internal/ledger"
	"github.com/theirongolddev/moneymate/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagDaemonAddr         string
	flagDaemonInterval     time.Duration
	flagDaemonDetach       bool
	flagDaemonRuntimeFile  string
	flagDaemonLogFile      string
	flagDaemonEventsBuffer int
	flagDaemonChild        bool
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the background alert daemon with HTTP/SSE endpoints",
	Long: `Watch the ledger snapshot, re-evaluate budget alerts when it changes,
deliver due notifications and serve status over HTTP.`,
	RunE: runDaemon,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon process and API status",
	RunE:  runDaemonStatus,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	RunE:  runDaemonStop,
}

var daemonNotificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "List pending notifications in the queue",
	RunE:  runDaemonNotifications,
}

func init() {
	defaultRuntime := filepath.Join(config.DataDir(), "moneymated.json")
	defaultLog := filepath.Join(config.DataDir(), "moneymated.log")

	daemonCmd.PersistentFlags().StringVar(&flagDaemonAddr, "addr", "", "HTTP listen address (default from config)")
	daemonCmd.PersistentFlags().DurationVar(&flagDaemonInterval, "interval", 0, "Snapshot poll interval (default from config)")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonRuntimeFile, "runtime-file", defaultRuntime, "File recording the running daemon's pid and address")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonLogFile, "log-file", defaultLog, "Log file path for detached mode")
	daemonCmd.PersistentFlags().IntVar(&flagDaemonEventsBuffer, "events-buffer", 0, "Max in-memory events retained (default from config)")

	daemonCmd.Flags().BoolVar(&flagDaemonDetach, "detach", false, "Run daemon as a background process")
	daemonCmd.Flags().BoolVar(&flagDaemonChild, "child", false, "Internal: mark detached child process")
	_ = daemonCmd.Flags().MarkHidden("child")

	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	daemonCmd.AddCommand(daemonNotificationsCmd)
	rootCmd.AddCommand(daemonCmd)
}

func daemonAddr() string {
	if flagDaemonAddr != "" {
		return flagDaemonAddr
	}
	return appConfig.Daemon.Addr
}

func daemonInterval() time.Duration {
	if flagDaemonInterval > 0 {
		return flagDaemonInterval
	}
	return appConfig.PollInterval()
}

func daemonEventsBuffer() int {
	if flagDaemonEventsBuffer > 0 {
		return flagDaemonEventsBuffer
	}
	return appConfig.Daemon.EventsBuffer
}

func runDaemon(_ *cobra.Command, _ []string) error {
	if flagDaemonDetach && flagDaemonChild {
		return errors.New("invalid daemon launch mode")
	}
	rt := runtimeFile(flagDaemonRuntimeFile)
	if err := rt.ensureNotRunning(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(string(rt)), 0o750); err != nil {
		return fmt.Errorf("create daemon directory: %w", err)
	}

	if flagDaemonDetach {
		return startDaemonDetached()
	}
	return runDaemonForeground(rt)
}

// startDaemonDetached re-runs the current command line as a background child
// with output appended to the log file.
func startDaemonDetached() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	args := append(filterDetachArg(os.Args[1:]), "--child")

	if err := os.MkdirAll(filepath.Dir(flagDaemonLogFile), 0o750); err != nil {
		return fmt.Errorf("create daemon log directory: %w", err)
	}
	//nolint:gosec // daemon log path is configured by the local user
	logf, err := os.OpenFile(flagDaemonLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open daemon log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	child := exec.Command(exe, args...) //nolint:gosec // exe/args come from current process invocation
	child.Stdout = logf
	child.Stderr = logf
	child.Env = os.Environ()
	if err := child.Start(); err != nil {
		return fmt.Errorf("start detached daemon: %w", err)
	}

	fmt.Printf("  Started daemon (pid %d)\n", child.Process.Pid)
	fmt.Printf("  API: http://%s/v1/status\n", daemonAddr())
	fmt.Printf("  Log: %s\n", flagDaemonLogFile)
	return nil
}

func runDaemonForeground(rt runtimeFile) error {
	dataFile := config.GetDataFile(appConfig)
	if err := rt.write(daemonRuntimeState{
		PID:       os.Getpid(),
		Addr:      daemonAddr(),
		StartedAt: time.Now(),
		DataFile:  dataFile,
	}); err != nil {
		return err
	}
	defer rt.remove()

	q, err := store.Open(config.GetQueuePath(appConfig))
	if err != nil {
		return fmt.Errorf("opening notification queue: %w", err)
	}
	defer func() { _ = q.Close() }()

	l := ledger.New(dataFile, ledger.WithLogger(logger))
	q.SetLocation(l.Location())

	svc := daemon.New(daemon.Config{
		Interval:      daemonInterval(),
		Addr:          daemonAddr(),
		EventsBuffer:  daemonEventsBuffer(),
		Threshold:     threshold(),
		AlertsEnabled: appConfig.Alerts.Enabled,
		ReminderHour:  appConfig.Alerts.ReminderHour,
		Logger:        logger,
	}, l, q)

	fmt.Printf("  moneymate daemon listening on http://%s\n", daemonAddr())
	fmt.Printf("  Watching %s every %s\n", dataFile, daemonInterval())
	fmt.Println("  Stop with: moneymate daemon stop")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runDaemonStatus(cmd *cobra.Command, _ []string) error {
	rt := runtimeFile(flagDaemonRuntimeFile)
	st, err := rt.read()
	if err != nil {
		fmt.Println("  Daemon: not running")
		return nil
	}
	if !processAlive(st.PID) {
		fmt.Printf("  Daemon: stale runtime file (pid %d not alive)\n", st.PID)
		return nil
	}

	fmt.Printf("  Daemon PID: %d (up %s)\n", st.PID, cli.FormatRelative(st.StartedAt, time.Now()))
	fmt.Printf("  Address: http://%s\n", st.Addr)

	status, err := fetchStatus(cmd.Context(), st.Addr)
	if err != nil {
		fmt.Printf("  API status: %v\n", err)
		return nil
	}

	lastPoll := "pending"
	if !status.LastPollAt.IsZero() {
		lastPoll = cli.FormatRelative(status.LastPollAt, time.Now())
	}
	sum := status.Summary
	today := cli.FormatMoney(sum.TodaySpend)
	if sum.DailyMaxSpend > 0 {
		today += " / " + cli.FormatMoney(sum.DailyMaxSpend)
	}
	rows := [][]string{
		{"Data file", status.DataFile},
		{"Last poll", lastPoll},
		{"Polls", cli.FormatNumber(status.PollCount)},
		{"---"},
		{"Expenses", cli.FormatNumber(int64(sum.Expenses))},
		{"This month", cli.FormatMoney(sum.MonthSpend)},
		{"Today", today},
		{"Alerts", cli.FormatNumber(int64(sum.Alerts))},
		{"---"},
		{"Pending", cli.FormatNumber(int64(status.Pending))},
		{"Delivered", cli.FormatNumber(status.Delivered)},
		{"Subscribers", cli.FormatNumber(int64(status.SubscriberCount))},
	}
	fmt.Print(cli.RenderTable(cli.Table{Rows: rows}))
	if sum.Banner != "" {
		fmt.Printf("  %s\n", cli.Warn(sum.Banner))
	}
	if status.LastError != "" {
		fmt.Printf("  Last error: %s\n", cli.Danger(status.LastError))
	}
	return nil
}

// fetchStatus reads /v1/status from a running daemon.
func fetchStatus(ctx context.Context, addr string) (daemon.Status, error) {
	var st daemon.Status
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+"/v1/status", nil)
	if err != nil {
		return st, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return st, fmt.Errorf("unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return st, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return st, fmt.Errorf("malformed response: %w", err)
	}
	return st, nil
}

func runDaemonStop(_ *cobra.Command, _ []string) error {
	rt := runtimeFile(flagDaemonRuntimeFile)
	st, err := rt.read()
	if err != nil {
		return errors.New("daemon is not running")
	}

	proc, err := os.FindProcess(st.PID)
	if err != nil {
		return fmt.Errorf("find daemon process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal daemon process: %w", err)
	}

	deadline := time.Now().Add(8 * time.Second)
	for time.Now().Before(deadline) {
		if !processAlive(st.PID) {
			rt.remove()
			fmt.Printf("  Stopped daemon (pid %d)\n", st.PID)
			return nil
		}
		time.Sleep(150 * time.Millisecond)
	}
	return fmt.Errorf("daemon (pid %d) did not exit in time", st.PID)
}

func runDaemonNotifications(_ *cobra.Command, _ []string) error {
	q, err := store.Open(config.GetQueuePath(appConfig))
	if err != nil {
		return fmt.Errorf("opening notification queue: %w", err)
	}
	defer func() { _ = q.Close() }()

	pending, err := q.Pending()
	if err != nil {
		return fmt.Errorf("listing notifications: %w", err)
	}
	if len(pending) == 0 {
		fmt.Println("  No pending notifications.")
		return nil
	}

	now := time.Now()
	rows := make([][]string, 0, len(pending))
	for _, n := range pending {
		repeat := "once"
		if n.Repeats() {
			repeat = fmt.Sprintf("daily %02d:00", n.RepeatHour)
		}
		rows = append(rows, []string{
			n.Identifier,
			n.Title,
			cli.FormatRelative(n.FireAt, now),
			repeat,
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Pending notifications",
		Headers: []string{"ID", "Title", "Fires", "Repeat"},
		Rows:    rows,
	}))
	return nil
}

