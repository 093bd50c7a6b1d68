package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hsh-clinic/clinic-backend/internal/config"
	"github.com/hsh-clinic/clinic-backend/internal/model"
	"github.com/hsh-clinic/clinic-backend/internal/repository"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type reservationFixture struct {
	svc          *ReservationService
	reservations *mockReservations
	students     *mockStudents
	auditStore   *mockAuditStore
	publisher    *mockPublisher
}

func newReservationFixture(dailyCap int) *reservationFixture {
	f := &reservationFixture{
		reservations: &mockReservations{},
		students:     &mockStudents{},
		auditStore:   &mockAuditStore{},
		publisher:    &mockPublisher{},
	}
	audit := NewAuditService(f.auditStore, f.publisher, zerolog.Nop())
	f.svc = NewReservationService(&config.Config{ReservationDailyCap: dailyCap}, passTx{},
		f.reservations, f.students, audit, zerolog.Nop())
	return f
}

var testDay = time.Date(2025, time.April, 2, 0, 0, 0, 0, time.UTC)

func createReq() model.CreateReservationRequest {
	return model.CreateReservationRequest{ClinicID: 3, Date: "2025-04-02", ExamType: "dental"}
}

func TestReservationService_Create(t *testing.T) {
	ctx := context.Background()
	f := newReservationFixture(20)
	f.reservations.On("LockDate", ctx, testDay).Return(nil)
	f.reservations.On("CountByDate", ctx, testDay, 0).Return(5, nil)
	f.reservations.On("CountByStudentAndDate", ctx, 7, testDay, 0).Return(0, nil)
	f.students.On("Exists", ctx, 7).Return(true, nil)
	f.reservations.On("Create", ctx, mock.MatchedBy(func(r *model.Reservation) bool {
		return r.Status == model.ReservationPending && r.StudentID == 7 && r.Date.Equal(testDay)
	})).Return(nil)

	r, err := f.svc.Create(ctx, 7, createReq())
	require.NoError(t, err)
	assert.Equal(t, model.ReservationPending, r.Status)
	f.reservations.AssertExpectations(t)
}

func TestReservationService_CreateRejections(t *testing.T) {
	ctx := context.Background()

	t.Run("daily capacity reached", func(t *testing.T) {
		f := newReservationFixture(20)
		f.reservations.On("LockDate", ctx, testDay).Return(nil)
		f.reservations.On("CountByDate", ctx, testDay, 0).Return(20, nil)

		_, err := f.svc.Create(ctx, 7, createReq())
		assert.ErrorIs(t, err, ErrLimitReached)
		f.reservations.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("student already booked that day", func(t *testing.T) {
		f := newReservationFixture(20)
		f.reservations.On("LockDate", ctx, testDay).Return(nil)
		f.reservations.On("CountByDate", ctx, testDay, 0).Return(3, nil)
		f.reservations.On("CountByStudentAndDate", ctx, 7, testDay, 0).Return(1, nil)

		_, err := f.svc.Create(ctx, 7, createReq())
		assert.ErrorIs(t, err, ErrDailyLimitExceeded)
	})

	t.Run("unknown clinic", func(t *testing.T) {
		f := newReservationFixture(20)
		f.reservations.On("LockDate", ctx, testDay).Return(nil)
		f.reservations.On("CountByDate", ctx, testDay, 0).Return(0, nil)
		f.reservations.On("CountByStudentAndDate", ctx, 7, testDay, 0).Return(0, nil)
		f.students.On("Exists", ctx, 7).Return(true, nil)
		f.reservations.On("Create", ctx, mock.Anything).Return(repository.ErrInvalidReference)

		_, err := f.svc.Create(ctx, 7, createReq())
		assert.ErrorIs(t, err, ErrUnknownClinic)
	})

	t.Run("student deleted", func(t *testing.T) {
		f := newReservationFixture(20)
		f.reservations.On("LockDate", ctx, testDay).Return(nil)
		f.reservations.On("CountByDate", ctx, testDay, 0).Return(0, nil)
		f.reservations.On("CountByStudentAndDate", ctx, 7, testDay, 0).Return(0, nil)
		f.students.On("Exists", ctx, 7).Return(false, nil)

		_, err := f.svc.Create(ctx, 7, createReq())
		assert.ErrorIs(t, err, ErrUnknownStudent)
	})

	t.Run("bad date", func(t *testing.T) {
		f := newReservationFixture(20)
		req := createReq()
		req.Date = "02/04/2025"
		_, err := f.svc.Create(ctx, 7, req)
		assert.ErrorIs(t, err, ErrMalformedRequest)
	})
}

func TestReservationService_Update(t *testing.T) {
	ctx := context.Background()
	req := model.UpdateReservationRequest{ClinicID: 4, Date: "2025-04-02", ExamType: "eye"}

	t.Run("same date skips capacity", func(t *testing.T) {
		f := newReservationFixture(1)
		f.reservations.On("GetByIDForUpdate", ctx, 10).
			Return(&model.Reservation{ID: 10, StudentID: 7, Date: testDay, Status: model.ReservationPending}, nil)
		f.reservations.On("Update", ctx, mock.Anything).Return(nil)

		r, err := f.svc.Update(ctx, 7, 10, req)
		require.NoError(t, err)
		assert.Equal(t, 4, r.ClinicID)
		f.reservations.AssertNotCalled(t, "LockDate", mock.Anything, mock.Anything)
	})

	t.Run("moved date excludes itself", func(t *testing.T) {
		f := newReservationFixture(20)
		f.reservations.On("GetByIDForUpdate", ctx, 10).
			Return(&model.Reservation{ID: 10, StudentID: 7, Date: testDay.AddDate(0, 0, -1)}, nil)
		f.reservations.On("LockDate", ctx, testDay).Return(nil)
		f.reservations.On("CountByDate", ctx, testDay, 10).Return(0, nil)
		f.reservations.On("CountByStudentAndDate", ctx, 7, testDay, 10).Return(0, nil)
		f.reservations.On("Update", ctx, mock.Anything).Return(nil)

		_, err := f.svc.Update(ctx, 7, 10, req)
		require.NoError(t, err)
		f.reservations.AssertExpectations(t)
	})

	t.Run("accepted is frozen", func(t *testing.T) {
		f := newReservationFixture(20)
		f.reservations.On("GetByIDForUpdate", ctx, 10).
			Return(&model.Reservation{ID: 10, StudentID: 7, Status: model.ReservationAccepted}, nil)

		_, err := f.svc.Update(ctx, 7, 10, req)
		assert.ErrorIs(t, err, ErrAlreadyAccepted)
	})

	t.Run("someone else's", func(t *testing.T) {
		f := newReservationFixture(20)
		f.reservations.On("GetByIDForUpdate", ctx, 10).
			Return(&model.Reservation{ID: 10, StudentID: 8}, nil)

		_, err := f.svc.Update(ctx, 7, 10, req)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestReservationService_Cancel(t *testing.T) {
	ctx := context.Background()

	f := newReservationFixture(20)
	f.reservations.On("GetByID", ctx, 10).Return(&model.Reservation{ID: 10, StudentID: 7, Status: model.ReservationAccepted}, nil)
	assert.ErrorIs(t, f.svc.Cancel(ctx, 7, 10), ErrAlreadyAccepted)

	f = newReservationFixture(20)
	f.reservations.On("GetByID", ctx, 11).Return(&model.Reservation{ID: 11, StudentID: 7, Status: model.ReservationDeclined}, nil)
	f.reservations.On("Delete", ctx, 11).Return(nil)
	require.NoError(t, f.svc.Cancel(ctx, 7, 11))

	f = newReservationFixture(20)
	f.reservations.On("GetByID", ctx, 12).Return(nil, repository.ErrNotFound)
	assert.ErrorIs(t, f.svc.Cancel(ctx, 7, 12), ErrNotFound)
}

func TestReservationService_AcceptOrDecline(t *testing.T) {
	ctx := context.Background()
	actor := AdminActor(2, "sara")

	t.Run("accept appends and announces", func(t *testing.T) {
		f := newReservationFixture(20)
		f.reservations.On("SetStatus", ctx, 10, model.ReservationAccepted).Return(nil)
		f.auditStore.On("Insert", ctx, mock.MatchedBy(func(e *model.AdminLog) bool {
			return e.Action == model.AuditAcceptExam && e.ActorID == 2 && e.ActorClass == model.ClassAdmin
		})).Run(func(args mock.Arguments) { args.Get(1).(*model.AdminLog).ID = 99 }).Return(nil)
		f.publisher.On("PublishAudit", ctx, mock.MatchedBy(func(e *model.AdminLog) bool { return e.ID == 99 })).Return(nil)

		require.NoError(t, f.svc.AcceptOrDecline(ctx, actor, 10, model.DecisionAccept))
		f.auditStore.AssertExpectations(t)
		f.publisher.AssertExpectations(t)
	})

	t.Run("audit failure fails the decision", func(t *testing.T) {
		f := newReservationFixture(20)
		f.reservations.On("SetStatus", ctx, 10, model.ReservationDeclined).Return(nil)
		f.auditStore.On("Insert", ctx, mock.Anything).Return(errors.New("disk full"))

		err := f.svc.AcceptOrDecline(ctx, actor, 10, model.DecisionDecline)
		assert.ErrorIs(t, err, ErrStorage)
		f.publisher.AssertNotCalled(t, "PublishAudit", mock.Anything, mock.Anything)
	})

	t.Run("missing reservation", func(t *testing.T) {
		f := newReservationFixture(20)
		f.reservations.On("SetStatus", ctx, 10, model.ReservationAccepted).Return(repository.ErrNotFound)

		assert.ErrorIs(t, f.svc.AcceptOrDecline(ctx, actor, 10, model.DecisionAccept), ErrNotFound)
		f.auditStore.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})
}

func TestReservationService_ListMine(t *testing.T) {
	ctx := context.Background()
	f := newReservationFixture(20)
	f.reservations.On("ListByStudent", ctx, 7, 20, 20).Return([]model.ReservationDetail{{}}, 21, nil)

	list, pg, err := f.svc.ListMine(ctx, 7, 2, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 2, pg.Page)
	assert.Equal(t, 21, pg.TotalItems)
}
