package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-portal/internal/config"
	"github.com/cmlabs-hris/attendance-portal/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-portal/internal/domain/latereason"
	"github.com/cmlabs-hris/attendance-portal/internal/domain/report"
	"github.com/cmlabs-hris/attendance-portal/internal/domain/roster"
	"github.com/cmlabs-hris/attendance-portal/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-portal/internal/pkg/upstream"
	"github.com/cmlabs-hris/attendance-portal/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/attendance-portal/internal/service/attendance"
	lateReasonService "github.com/cmlabs-hris/attendance-portal/internal/service/latereason"
	reportService "github.com/cmlabs-hris/attendance-portal/internal/service/report"
	rosterService "github.com/cmlabs-hris/attendance-portal/internal/service/roster"
)

// Gateways are the systems of record the services run against.
type Gateways struct {
	Sessions    attendance.SessionRepository
	Identities  roster.IdentityRepository
	Snapshots   roster.AttendanceSnapshotRepository
	LateReasons latereason.LateReasonRepository
	Reports     report.ReportRepository

	close func()
}

func (g *Gateways) Close() {
	if g.close != nil {
		g.close()
	}
}

// NewGateways builds the gateways selected by DATA_SOURCE.
func NewGateways(ctx context.Context, cfg *config.Config, loc *time.Location) (*Gateways, error) {
	switch cfg.App.DataSource {
	case config.DataSourcePostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{MaxConns: cfg.Database.MaxConns})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := postgresql.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		slog.Info("Using PostgreSQL gateways", "host", cfg.Database.Host, "database", cfg.Database.Name)

		return &Gateways{
			Sessions:    postgresql.NewSessionRepository(db),
			Identities:  postgresql.NewEmployeeRepository(db),
			Snapshots:   postgresql.NewAttendanceSnapshotRepository(db, loc),
			LateReasons: postgresql.NewLateReasonRepository(db),
			Reports:     postgresql.NewReportRepository(db),
			close:       db.Close,
		}, nil

	default:
		client, err := upstream.NewClient(upstream.Config{
			BaseURL:      cfg.Upstream.BaseURL,
			Timeout:      cfg.Upstream.Timeout,
			ServiceToken: cfg.Upstream.ServiceToken,
			Location:     loc,
		})
		if err != nil {
			return nil, err
		}
		slog.Info("Using upstream REST gateways", "base_url", cfg.Upstream.BaseURL)

		rosterGateway := upstream.NewRosterGateway(client)
		return &Gateways{
			Sessions:    upstream.NewSessionGateway(client),
			Identities:  rosterGateway,
			Snapshots:   rosterGateway,
			LateReasons: upstream.NewLateReasonGateway(client),
			Reports:     upstream.NewReportGateway(client),
		}, nil
	}
}

type Services struct {
	Policy     attendanceService.Policy
	Attendance attendance.AttendanceService
	LateReason latereason.LateReasonService
	Report     report.ReportService
	Roster     *rosterService.RosterServiceImpl
}

func NewServices(g *Gateways, loc *time.Location, clock attendanceService.Clock) *Services {
	policy := attendanceService.NewPolicy(loc)
	return &Services{
		Policy:     policy,
		Attendance: attendanceService.NewAttendanceService(g.Sessions, policy, clock),
		LateReason: lateReasonService.NewLateReasonService(g.LateReasons, policy, clock),
		Report:     reportService.NewReportService(g.Reports, policy, clock),
		Roster:     rosterService.NewRosterService(g.Identities, g.Snapshots, policy, clock),
	}
}
