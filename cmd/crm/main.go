// Command crm is the command line front end of the CRM: it manages
// customers, tasks and notifications and runs the background workers.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cnkcrm/internal/config"
	"cnkcrm/internal/database"
	"cnkcrm/internal/domain"
	"cnkcrm/internal/modules/reconciliation"
	"cnkcrm/internal/observability/metrics"
	"cnkcrm/internal/observability/tracing"
	"cnkcrm/internal/pkg/export"
	"cnkcrm/internal/pkg/logger"
	"cnkcrm/internal/pkg/validator"
	"cnkcrm/internal/pkg/worker"
)

const usage = `usage: crm <command> [flags]

commands:
  seed              write default users, customers and ERP settings
  customers         list customers
  add-customer      add a customer (-name, -email, -phone, -city)
  stage             move a customer to a stage (-id, -stage)
  tasks             list tasks
  notifications     list recent notifications
  read              mark a notification read (-id, or -all)
  sync-erp          pull stock, invoices, customers and offers from the ERP
  export-offer      write an offer as PDF (-id, -out)
  export-customers  write the customer list as PDF (-out)
  reconcile         open a reconciliation for a customer (-customer, -period, -amount)
  leave             request leave for -user (-type, -from, -to, -reason)
  km                record an odometer reading for -user (-km, -type morning|evening)
  insights          print opportunities and at-risk customers (-days)
  run               run reminder, AI agent and cleanup workers until interrupted
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, os.Args[1], os.Args[2:]); err != nil {
		log.Error("command failed", zap.String("command", os.Args[1]), zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger, cmd string, args []string) error {
	shutdown, err := tracing.Init(ctx, log, cfg.Otel.Endpoint, cfg.Otel.ServiceName, cfg.AppEnv)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.close()
	defer func() {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			log.Warn("write metrics", zap.Error(err))
		}
	}()

	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	user := fs.String("user", "1", "acting user id")

	switch cmd {
	case "seed":
		_ = fs.Parse(args)
		return database.Seed(ctx, a.store, log)

	case "customers":
		_ = fs.Parse(args)
		customers, err := a.repo.Customers(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSTAGE\tEMAIL\tCITY")
		for _, c := range customers {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Stage, c.Email, c.City)
		}
		return w.Flush()

	case "add-customer":
		name := fs.String("name", "", "customer name")
		email := fs.String("email", "", "contact email")
		phone := fs.String("phone", "", "phone")
		city := fs.String("city", "", "city")
		_ = fs.Parse(args)
		c := domain.Customer{Name: *name, Email: *email, Phone1: *phone, City: *city, Status: domain.CustomerActive}
		if err := validator.Struct(c); err != nil {
			return err
		}
		id, err := a.repo.AddCustomer(ctx, c)
		if id != "" {
			fmt.Println(id)
		}
		return err

	case "stage":
		id := fs.String("id", "", "customer id")
		stage := fs.String("stage", "", "target stage: "+stageList())
		_ = fs.Parse(args)
		return a.repo.UpdateCustomerStage(ctx, *id, domain.Stage(*stage), *user)

	case "tasks":
		mine := fs.Bool("mine", false, "only tasks assigned to -user")
		_ = fs.Parse(args)
		tasks, err := a.repo.Tasks(ctx)
		if *mine {
			tasks, err = a.repo.TasksForUser(ctx, *user)
		}
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDUE\tSTATUS\tASSIGNED\tTITLE")
		for _, t := range tasks {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.DueDate.Format("2006-01-02"), t.Status, t.AssignedTo, t.Title)
		}
		return w.Flush()

	case "notifications":
		limit := fs.Int("n", 20, "how many to show")
		_ = fs.Parse(args)
		list, err := a.center.Recent(ctx, *limit)
		if err != nil {
			return err
		}
		unread, err := a.center.UnreadCount(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%d unread\n", unread)
		for _, n := range list {
			mark := " "
			if !n.IsRead {
				mark = "*"
			}
			fmt.Printf("%s %s  %-28s %s\n", mark, n.Timestamp.Format("2006-01-02 15:04"), n.MessageKey, n.ID)
		}
		return nil

	case "read":
		id := fs.String("id", "", "notification id")
		all := fs.Bool("all", false, "mark every notification read")
		_ = fs.Parse(args)
		if *all {
			n, err := a.center.MarkAllRead(ctx)
			fmt.Printf("%d marked read\n", n)
			return err
		}
		return a.center.MarkRead(ctx, *id)

	case "sync-erp":
		_ = fs.Parse(args)
		return syncERP(ctx, a)

	case "export-offer":
		id := fs.String("id", "", "offer id")
		out := fs.String("out", "", "output file, default <teklifNo>.pdf")
		_ = fs.Parse(args)
		offer, err := a.repo.GetOffer(ctx, *id)
		if err != nil {
			return fmt.Errorf("offer %s: %w", *id, err)
		}
		customer, err := a.repo.GetCustomer(ctx, offer.CustomerID)
		if err != nil {
			customer = nil
		}
		pdf, err := export.OfferPDF(*offer, customer)
		if err != nil {
			return err
		}
		path := *out
		if path == "" {
			path = offer.TeklifNo + ".pdf"
		}
		return os.WriteFile(path, pdf, 0o644)

	case "export-customers":
		out := fs.String("out", "customers.pdf", "output file")
		_ = fs.Parse(args)
		customers, err := a.repo.Customers(ctx)
		if err != nil {
			return err
		}
		table := export.Table{
			Title:   "Müşteri Listesi",
			Headers: []string{"Ad", "Aşama", "E-posta", "Şehir"},
			Widths:  []float64{70, 30, 55, 35},
		}
		for _, c := range customers {
			table.Rows = append(table.Rows, []string{c.Name, string(c.Stage), c.Email, c.City})
		}
		pdf, err := export.TablePDF(table)
		if err != nil {
			return err
		}
		return os.WriteFile(*out, pdf, 0o644)

	case "reconcile":
		customer := fs.String("customer", "", "customer id")
		period := fs.String("period", "", "YYYY-MM, default last month")
		amount := fs.String("amount", "", "amount, default the ERP balance")
		_ = fs.Parse(args)
		in := reconciliation.Input{CustomerID: *customer, Period: *period, CreatedBy: *user}
		if *amount != "" {
			d, err := decimal.NewFromString(*amount)
			if err != nil {
				return fmt.Errorf("amount: %w", err)
			}
			in.Amount = &d
		}
		id, err := a.reconciliation.Create(ctx, in)
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil

	case "leave":
		kind := fs.String("type", "Yıllık İzin", "leave type")
		from := fs.String("from", "", "first day, YYYY-MM-DD")
		to := fs.String("to", "", "last day, YYYY-MM-DD")
		reason := fs.String("reason", "", "reason")
		_ = fs.Parse(args)
		id, err := a.personnel.RequestLeave(ctx, *user, *kind, *from, *to, *reason)
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil

	case "km":
		km := fs.Int("km", -1, "odometer reading")
		kind := fs.String("type", string(domain.KmMorning), "morning or evening")
		_ = fs.Parse(args)
		id, err := a.personnel.RecordKm(ctx, *user, *km, domain.KmType(*kind))
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil

	case "insights":
		days := fs.Int("days", 30, "days without contact before a customer is at risk")
		_ = fs.Parse(args)
		opps, err := a.prediction.Opportunities(ctx)
		if err != nil {
			return err
		}
		risks, err := a.prediction.AtRisk(ctx, *days)
		if err != nil {
			return err
		}
		for _, in := range append(opps, risks...) {
			fmt.Printf("%-12s %.2f  %s  %s\n", in.Kind, in.Probability, in.CustomerName, in.Reason)
		}
		return nil

	case "run":
		_ = fs.Parse(args)
		return runWorkers(ctx, a, *user)
	}

	fmt.Fprint(os.Stderr, usage)
	return fmt.Errorf("unknown command %q", cmd)
}

func syncERP(ctx context.Context, a *app) error {
	steps := []struct {
		name string
		fn   func(context.Context) (int, error)
	}{
		{"stock", a.erp.SyncStock},
		{"invoices", a.erp.SyncInvoices},
		{"customers", a.erp.SyncCustomers},
		{"offers", a.erp.SyncOffers},
	}
	var errs []error
	for _, st := range steps {
		n, err := st.fn(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("sync %s: %w", st.name, err))
			continue
		}
		fmt.Printf("%-10s %d\n", st.name, n)
	}
	return errors.Join(errs...)
}

func runWorkers(ctx context.Context, a *app, userID string) error {
	if _, err := a.auth.Resume(ctx); err != nil {
		a.log.Info("no stored session, running workers as default user", zap.String("user_id", userID))
	} else if u := a.auth.CurrentUser(); u != nil {
		userID = u.ID
	}

	jobs := []*worker.Job{
		a.reminders.Schedule(ctx, a.cfg.Reminder.Interval),
		a.agent.Schedule(ctx, userID, a.cfg.Agent.Delay, a.cfg.Agent.Interval),
		a.center.ScheduleCleanup(ctx, a.cfg.Notifications.Keep, a.cfg.Notifications.CleanupInterval),
	}
	a.log.Info("workers started", zap.String("user_id", userID))

	<-ctx.Done()
	for _, j := range jobs {
		if j == nil {
			continue
		}
		j.Stop()
	}
	a.log.Info("workers stopped")
	return nil
}

func stageList() string {
	names := make([]string, len(domain.Stages))
	for i, s := range domain.Stages {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
