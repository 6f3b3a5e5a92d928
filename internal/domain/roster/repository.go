package roster

import "context"

type IdentityRepository interface {
	ListEmployees(ctx context.Context) ([]Identity, error)
}

type AttendanceSnapshotRepository interface {
	ListToday(ctx context.Context) ([]TodayAttendance, error)
}
