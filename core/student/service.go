package student

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/vvladislovv/GreMiuv/core"
)

type (
	// Client is the remote grade-book surface the service depends on;
	// services/gradebook implements it.
	Client interface {
		StudentByFIO(ctx context.Context, fio string) (Student, error)
		Subjects(ctx context.Context, fio string) ([]Subject, error)
		Stats(ctx context.Context, fio string) (Stats, error)
		Grades(ctx context.Context, fio string, subjectID int) (GradesData, error)
		SubjectsRatings(ctx context.Context, fio string) ([]SubjectRating, error)
	}

	// Data is the merged per-student view model.
	Data struct {
		Student  Student   `json:"student"`
		Subjects []Subject `json:"subjects"`
	}

	Service struct {
		client Client
	}
)

func NewService(client Client) *Service {
	return &Service{client: client}
}

// Load fetches profile, subject list and statistics concurrently and merges
// them. The merge is all-or-nothing: any fetch failure discards partial data.
func (svc *Service) Load(ctx context.Context, fio string) (Data, error) {
	fio = core.CleanString(fio)
	if fio == "" {
		return Data{}, core.ErrIdentityMissing
	}

	var (
		stu   Student
		subs  []Subject
		stats Stats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stu, err = svc.client.StudentByFIO(gctx, fio)
		return
	})
	g.Go(func() (err error) {
		subs, err = svc.client.Subjects(gctx, fio)
		return
	})
	g.Go(func() (err error) {
		stats, err = svc.client.Stats(gctx, fio)
		return
	})
	if err := g.Wait(); err != nil {
		return Data{}, err
	}

	stu.Stats = &stats
	return Data{Student: stu, Subjects: subs}, nil
}

// Calendar fetches one subject's dated records and builds the month grid.
func (svc *Service) Calendar(ctx context.Context, fio string, subjectID int) (Calendar, error) {
	data, err := svc.client.Grades(ctx, fio, subjectID)
	if err != nil {
		return Calendar{}, err
	}
	return BuildCalendar(data.Grades), nil
}

// SubjectRatings fetches the per-subject ranking breakdown.
func (svc *Service) SubjectRatings(ctx context.Context, fio string) ([]SubjectRating, error) {
	return svc.client.SubjectsRatings(ctx, fio)
}
