package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/hackgods/healthcare-marketplace/internal/authgate"
	"github.com/hackgods/healthcare-marketplace/internal/booking"
	"github.com/hackgods/healthcare-marketplace/internal/config"
	"github.com/hackgods/healthcare-marketplace/internal/logging"
	"github.com/hackgods/healthcare-marketplace/internal/marketplace"
	"github.com/hackgods/healthcare-marketplace/internal/notify"
	redisclient "github.com/hackgods/healthcare-marketplace/internal/redis"
	"github.com/hackgods/healthcare-marketplace/internal/remote"
	"github.com/hackgods/healthcare-marketplace/internal/session"
	"github.com/hackgods/healthcare-marketplace/internal/store"
)

const usage = `usage: marketplace <command> [flags]

commands:
  clinics                                   list clinics and their hours
  slots -clinic ID -date YYYY-MM-DD         show bookable time slots
  login -email E -password P [-doctor]      sign in and keep the session
  book -clinic ID -doctor ID -date D -start HH:MM -reason R [-type in-person|video]
  appointments [-doctor]                    list your appointments
  logout [-doctor]                          clear the saved session
`

// printer shows notifications on the terminal.
type printer struct{ w io.Writer }

func (p printer) Notify(level notify.Level, message string) {
	fmt.Fprintf(p.w, "[%s] %s\n", level, message)
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New("marketplace", cfg.Env, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, os.Args[1], os.Args[2:], os.Stdout); err != nil {
		if !errors.Is(err, store.ErrBlocked) {
			fmt.Fprintf(os.Stderr, "error: %s\n", remote.Message(err))
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger zerolog.Logger, cmd string, args []string, out io.Writer) error {
	storage, closeStorage, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStorage()

	reg := prometheus.NewRegistry()
	defer logCallSummary(logger, reg)

	client := remote.New(cfg.APIBaseURL,
		remote.WithTokens(remote.SessionTokens{Storage: storage}),
		remote.WithLogger(logger),
		remote.WithMetrics(remote.NewMetrics(reg)),
	)
	s, err := store.New(ctx, store.Deps{
		Client:     client,
		Session:    storage,
		Notifier:   notify.Fanout{printer{w: out}, notify.NewLogNotifier(logger)},
		Logger:     logger,
		Middleware: []store.Middleware{store.AuthGuard(store.PatientOnly), store.Logging(logger)},
	})
	if err != nil {
		return err
	}

	switch cmd {
	case "clinics":
		return listClinics(ctx, s, out)
	case "slots":
		return showSlots(ctx, s, args, out)
	case "login":
		return login(ctx, s, args)
	case "book":
		return book(ctx, s, args, out)
	case "appointments":
		return listAppointments(ctx, s, args, out)
	case "logout":
		return logout(ctx, s, args)
	default:
		fmt.Fprint(out, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// logCallSummary writes the backend call counters of this invocation at debug.
func logCallSummary(logger zerolog.Logger, reg prometheus.Gatherer) {
	families, err := reg.Gather()
	if err != nil {
		logger.Debug().Err(err).Msg("gather client metrics")
		return
	}
	for _, mf := range families {
		if mf.GetName() != "marketplace_client_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			ev := logger.Debug()
			for _, l := range m.GetLabel() {
				ev = ev.Str(l.GetName(), l.GetValue())
			}
			ev.Float64("count", m.GetCounter().GetValue()).Msg("backend calls")
		}
	}
}

func openSession(ctx context.Context, cfg config.Config) (session.Storage, func(), error) {
	if cfg.SessionBackend != config.SessionRedis {
		return session.NewMemory(), func() {}, nil
	}
	rdb, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		return nil, nil, fmt.Errorf("redis connection error: %w", err)
	}
	return redisclient.NewSessionStore(rdb, cfg.SessionPrefix), func() { _ = rdb.Close() }, nil
}

func formatHours(h *marketplace.DayHours) string {
	if h == nil || h.Open == "" || h.Close == "" {
		return "closed"
	}
	return h.Open + "-" + h.Close
}

func listClinics(ctx context.Context, s *store.Store, out io.Writer) error {
	clinics, err := s.FetchClinics(ctx)
	if err != nil {
		return err
	}
	for _, c := range clinics {
		fmt.Fprintf(out, "%s  %-30s weekdays %-11s weekends %-11s %d min\n",
			c.ID, c.Name, formatHours(c.OperatingHours.Weekdays), formatHours(c.OperatingHours.Weekends), booking.SlotMinutes(c, 0))
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(booking.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}
	return d, nil
}

func showSlots(ctx context.Context, s *store.Store, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("slots", flag.ContinueOnError)
	clinicID := fs.String("clinic", "", "clinic id")
	date := fs.String("date", "", "date, YYYY-MM-DD")
	if err := fs.Parse(args); err != nil {
		return err
	}
	day, err := parseDate(*date)
	if err != nil {
		return err
	}
	clinic, err := s.FetchClinic(ctx, *clinicID)
	if err != nil {
		return err
	}

	slots := booking.Plan(clinic.OperatingHours, booking.SlotMinutes(clinic, 0), day)
	if len(slots) == 0 {
		fmt.Fprintf(out, "%s is closed on %s\n", clinic.Name, day.Format("Monday, January 2"))
		return nil
	}
	for _, slot := range slots {
		fmt.Fprintf(out, "%s  %s\n", slot.Start, slot.Display)
	}
	return nil
}

func login(ctx context.Context, s *store.Store, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	asDoctor := fs.Bool("doctor", false, "sign in as a doctor")
	if err := fs.Parse(args); err != nil {
		return err
	}
	creds := marketplace.Credentials{Email: *email, Password: *password}
	if *asDoctor {
		_, err := s.DoctorLogin(ctx, creds)
		return err
	}
	_, err := s.Login(ctx, creds)
	return err
}

func book(ctx context.Context, s *store.Store, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("book", flag.ContinueOnError)
	clinicID := fs.String("clinic", "", "clinic id")
	doctorID := fs.String("doctor", "", "doctor id")
	date := fs.String("date", "", "date, YYYY-MM-DD")
	start := fs.String("start", "", "slot start, HH:MM")
	reason := fs.String("reason", "", "reason for the visit")
	kind := fs.String("type", string(marketplace.TypeInPerson), "in-person or video")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if d := authgate.New(s).Check(marketplace.RolePatient, "/book"); !d.Allowed {
		fmt.Fprintf(out, "login required, see %s\n", d.Redirect)
		return store.ErrBlocked
	}

	day, err := parseDate(*date)
	if err != nil {
		return err
	}
	clinic, err := s.FetchClinic(ctx, *clinicID)
	if err != nil {
		return err
	}

	flow := booking.NewFlow(booking.FlowConfig{Clinic: clinic, DoctorID: *doctorID, Checker: s, Booker: s, Notifier: printer{w: out}})
	if _, err := flow.SelectDate(day); err != nil {
		return err
	}
	if err := flow.SelectSlot(*start); err != nil {
		return err
	}
	if _, err := flow.CheckAvailability(ctx); err != nil {
		return err
	}
	if err := flow.SetDetails(*reason, marketplace.AppointmentType(*kind)); err != nil {
		return err
	}
	appt, err := flow.Submit(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "booked %s on %s %s-%s (%s)\n", appt.ID, appt.Date, appt.StartTime, appt.EndTime, appt.Status)
	return nil
}

func listAppointments(ctx context.Context, s *store.Store, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("appointments", flag.ContinueOnError)
	asDoctor := fs.Bool("doctor", false, "list the signed-in doctor's schedule")
	if err := fs.Parse(args); err != nil {
		return err
	}

	role, target := marketplace.RolePatient, "/appointments"
	if *asDoctor {
		role, target = marketplace.RoleDoctor, "/doctor/appointments"
	}
	if d := authgate.New(s).Check(role, target); !d.Allowed {
		fmt.Fprintf(out, "login required, see %s\n", d.Redirect)
		return store.ErrBlocked
	}

	var (
		appts []marketplace.Appointment
		err   error
	)
	if *asDoctor {
		appts, err = s.FetchDoctorAppointments(ctx)
	} else {
		appts, err = s.FetchPatientAppointments(ctx)
	}
	if err != nil {
		return err
	}
	if len(appts) == 0 {
		fmt.Fprintln(out, "no appointments")
	}
	for _, a := range appts {
		fmt.Fprintf(out, "%s  %s %s-%s  %-10s %s\n", a.ID, a.Date, a.StartTime, a.EndTime, a.Status, a.Reason)
	}
	return nil
}

func logout(ctx context.Context, s *store.Store, args []string) error {
	fs := flag.NewFlagSet("logout", flag.ContinueOnError)
	asDoctor := fs.Bool("doctor", false, "clear the doctor session")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *asDoctor {
		return s.DoctorLogout(ctx)
	}
	return s.Logout(ctx)
}
