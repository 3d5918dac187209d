package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/equiplend/lending-service/internal/errs"
	"github.com/equiplend/lending-service/internal/model"
	"github.com/equiplend/lending-service/internal/repository"
	"github.com/equiplend/lending-service/internal/service"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []service.Event
}

func (p *recordingPublisher) Publish(_ string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, v.(service.Event))
	return nil
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Event)
	}
	return out
}

func newService(t *testing.T) (*service.Service, *repository.InmemRepository, *recordingPublisher) {
	t.Helper()
	repo := repository.NewInmemRepository()
	pub := &recordingPublisher{}
	return service.NewService(repo, pub, zap.NewNop()), repo, pub
}

func newEquipment(t *testing.T, svc *service.Service, quantity int) model.Equipment {
	t.Helper()
	eq, err := svc.CreateEquipment(context.Background(), model.EquipmentSpec{
		Name:      "Canon EOS R6",
		Category:  model.CategoryPhotography,
		Condition: model.ConditionGood,
		Quantity:  quantity,
	})
	require.NoError(t, err)
	require.Equal(t, quantity, eq.AvailableQty)
	return eq
}

func dueIn(days int) model.Date {
	return model.Date{Time: time.Now().UTC().AddDate(0, 0, days)}
}

func submit(t *testing.T, svc *service.Service, equipmentUid, username string, quantity int) model.BorrowRequest {
	t.Helper()
	br, err := svc.SubmitRequest(context.Background(), model.CreateBorrowRequest{
		EquipmentUid: equipmentUid,
		Quantity:     quantity,
		DueDate:      dueIn(7),
		Username:     username,
	})
	require.NoError(t, err)
	require.Equal(t, model.StatusPending, br.Status)
	return br
}

func availableQty(t *testing.T, svc *service.Service, equipmentUid string) int {
	t.Helper()
	eq, err := svc.GetEquipment(context.Background(), equipmentUid)
	require.NoError(t, err)
	return eq.AvailableQty
}

func TestSubmitApproveReturnScenario(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)
	ctx := context.Background()

	eq := newEquipment(t, svc, 5)

	br := submit(t, svc, eq.EquipmentUid, "alice", 3)
	require.Equal(t, 2, availableQty(t, svc, eq.EquipmentUid))

	approved, err := svc.ApproveRequest(ctx, br.RequestUid, "staff1")
	require.NoError(t, err)
	require.Equal(t, model.StatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	require.Equal(t, "staff1", *approved.ApprovedBy)
	require.NotNil(t, approved.ApprovedDate)
	require.Equal(t, 2, availableQty(t, svc, eq.EquipmentUid), "approval must not touch the ledger")

	err = svc.DeleteEquipment(ctx, eq.EquipmentUid)
	require.ErrorIs(t, err, errs.ErrConflict)

	returned, err := svc.ReturnRequest(ctx, br.RequestUid)
	require.NoError(t, err)
	require.Equal(t, model.StatusReturned, returned.Status)
	require.NotNil(t, returned.ReturnedDate)
	require.Equal(t, 5, availableQty(t, svc, eq.EquipmentUid))

	require.NoError(t, svc.DeleteEquipment(ctx, eq.EquipmentUid))

	// terminal requests survive equipment deletion as the audit trail
	kept, err := svc.GetRequest(ctx, br.RequestUid)
	require.NoError(t, err)
	require.Equal(t, model.StatusReturned, kept.Status)
}

func TestSubmitInsufficientAvailability(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)
	ctx := context.Background()

	eq := newEquipment(t, svc, 2)
	submit(t, svc, eq.EquipmentUid, "alice", 2)
	require.Equal(t, 0, availableQty(t, svc, eq.EquipmentUid))

	_, err := svc.SubmitRequest(ctx, model.CreateBorrowRequest{
		EquipmentUid: eq.EquipmentUid,
		Quantity:     1,
		DueDate:      dueIn(7),
		Username:     "bob",
	})
	require.ErrorIs(t, err, errs.ErrInsufficientAvailability)
	require.Equal(t, 0, availableQty(t, svc, eq.EquipmentUid))
}

func TestRejectRoundTrip(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)
	ctx := context.Background()

	eq := newEquipment(t, svc, 4)
	br := submit(t, svc, eq.EquipmentUid, "alice", 3)
	require.Equal(t, 1, availableQty(t, svc, eq.EquipmentUid))

	rejected, err := svc.RejectRequest(ctx, br.RequestUid, "staff1")
	require.NoError(t, err)
	require.Equal(t, model.StatusRejected, rejected.Status)
	require.Equal(t, 4, availableQty(t, svc, eq.EquipmentUid))
}

func TestInvalidTransitions(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)
	ctx := context.Background()

	eq := newEquipment(t, svc, 3)

	rejectedReq := submit(t, svc, eq.EquipmentUid, "alice", 1)
	_, err := svc.RejectRequest(ctx, rejectedReq.RequestUid, "staff1")
	require.NoError(t, err)

	approvedReq := submit(t, svc, eq.EquipmentUid, "alice", 1)
	_, err = svc.ApproveRequest(ctx, approvedReq.RequestUid, "staff1")
	require.NoError(t, err)

	before := availableQty(t, svc, eq.EquipmentUid)

	_, err = svc.RejectRequest(ctx, rejectedReq.RequestUid, "staff2")
	require.ErrorIs(t, err, errs.ErrInvalidTransition)

	_, err = svc.RejectRequest(ctx, approvedReq.RequestUid, "staff2")
	require.ErrorIs(t, err, errs.ErrInvalidTransition)

	_, err = svc.ApproveRequest(ctx, approvedReq.RequestUid, "staff2")
	require.ErrorIs(t, err, errs.ErrInvalidTransition)

	_, err = svc.ReturnRequest(ctx, rejectedReq.RequestUid)
	require.ErrorIs(t, err, errs.ErrInvalidTransition)

	require.Equal(t, before, availableQty(t, svc, eq.EquipmentUid), "failed transitions must not touch the ledger")

	_, err = svc.ApproveRequest(ctx, "0d9c1bd0-0000-0000-0000-000000000000", "staff2")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestSubmitValidation(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)
	ctx := context.Background()
	eq := newEquipment(t, svc, 3)

	_, err := svc.SubmitRequest(ctx, model.CreateBorrowRequest{
		EquipmentUid: eq.EquipmentUid,
		Quantity:     0,
		DueDate:      dueIn(7),
		Username:     "alice",
	})
	require.ErrorIs(t, err, errs.ErrValidation)

	for _, days := range []int{0, -1} {
		_, err = svc.SubmitRequest(ctx, model.CreateBorrowRequest{
			EquipmentUid: eq.EquipmentUid,
			Quantity:     1,
			DueDate:      dueIn(days),
			Username:     "alice",
		})
		require.ErrorIs(t, err, errs.ErrValidation)
	}
	require.Equal(t, 3, availableQty(t, svc, eq.EquipmentUid))
}

func TestConcurrentSubmitSingleWinner(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)
	ctx := context.Background()

	eq := newEquipment(t, svc, 1)

	var wg sync.WaitGroup
	errc := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.SubmitRequest(ctx, model.CreateBorrowRequest{
				EquipmentUid: eq.EquipmentUid,
				Quantity:     1,
				DueDate:      dueIn(7),
				Username:     "racer",
			})
			errc <- err
		}()
	}
	wg.Wait()
	close(errc)

	var ok, insufficient int
	for err := range errc {
		switch {
		case err == nil:
			ok++
		default:
			require.ErrorIs(t, err, errs.ErrInsufficientAvailability)
			insufficient++
		}
	}
	require.Equal(t, 1, ok)
	require.Equal(t, 1, insufficient)
	require.Equal(t, 0, availableQty(t, svc, eq.EquipmentUid))
}

func TestConcurrentSubmitHoldsInvariant(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)
	ctx := context.Background()

	const (
		total   = 5
		workers = 20
	)
	eq := newEquipment(t, svc, total)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.SubmitRequest(ctx, model.CreateBorrowRequest{ //nolint:errcheck
				EquipmentUid: eq.EquipmentUid,
				Quantity:     1,
				DueDate:      dueIn(7),
				Username:     "racer",
			})
		}()
	}
	wg.Wait()

	requests, err := svc.ListRequests(ctx, "")
	require.NoError(t, err)
	var reserved int
	for _, br := range requests {
		require.Equal(t, model.StatusPending, br.Status)
		reserved += br.Quantity
	}
	available := availableQty(t, svc, eq.EquipmentUid)
	require.Equal(t, total, reserved+available)
	require.Equal(t, 0, available)
	require.Len(t, requests, total)
}

func TestConcurrentDecisionSingleWinner(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)
	ctx := context.Background()

	eq := newEquipment(t, svc, 2)
	br := submit(t, svc, eq.EquipmentUid, "alice", 2)

	var wg sync.WaitGroup
	errc := make(chan error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := svc.ApproveRequest(ctx, br.RequestUid, "staff1")
		errc <- err
	}()
	go func() {
		defer wg.Done()
		_, err := svc.RejectRequest(ctx, br.RequestUid, "staff2")
		errc <- err
	}()
	wg.Wait()
	close(errc)

	var ok, lost int
	for err := range errc {
		if err == nil {
			ok++
			continue
		}
		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		lost++
	}
	require.Equal(t, 1, ok)
	require.Equal(t, 1, lost)

	got, err := svc.GetRequest(ctx, br.RequestUid)
	require.NoError(t, err)
	switch got.Status {
	case model.StatusApproved:
		require.Equal(t, 0, availableQty(t, svc, eq.EquipmentUid))
	case model.StatusRejected:
		require.Equal(t, 2, availableQty(t, svc, eq.EquipmentUid))
	default:
		t.Fatalf("unexpected status %s", got.Status)
	}
}

func TestUpdateEquipmentQuantity(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)
	ctx := context.Background()

	eq := newEquipment(t, svc, 5)
	submit(t, svc, eq.EquipmentUid, "alice", 3)

	spec := model.EquipmentSpec{
		Name:      eq.Name,
		Category:  eq.Category,
		Condition: eq.Condition,
	}

	spec.Quantity = 2 // below the 3 units on loan
	_, err := svc.UpdateEquipment(ctx, eq.EquipmentUid, spec)
	require.ErrorIs(t, err, errs.ErrConflict)

	spec.Quantity = 3
	shrunk, err := svc.UpdateEquipment(ctx, eq.EquipmentUid, spec)
	require.NoError(t, err)
	require.Equal(t, 0, shrunk.AvailableQty)

	spec.Quantity = 6
	grown, err := svc.UpdateEquipment(ctx, eq.EquipmentUid, spec)
	require.NoError(t, err)
	require.Equal(t, 3, grown.AvailableQty)
}

func TestEquipmentValidation(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)
	ctx := context.Background()

	valid := model.EquipmentSpec{
		Name:      "Stratocaster",
		Category:  model.CategoryMusicalInstruments,
		Condition: model.ConditionExcellent,
		Quantity:  1,
	}

	tests := []struct {
		name   string
		mutate func(*model.EquipmentSpec)
	}{
		{"empty name", func(s *model.EquipmentSpec) { s.Name = "  " }},
		{"zero quantity", func(s *model.EquipmentSpec) { s.Quantity = 0 }},
		{"unknown category", func(s *model.EquipmentSpec) { s.Category = "Furniture" }},
		{"unknown condition", func(s *model.EquipmentSpec) { s.Condition = "BROKEN" }},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			spec := valid
			tt.mutate(&spec)
			_, err := svc.CreateEquipment(ctx, spec)
			require.ErrorIs(t, err, errs.ErrValidation)
		})
	}
}

func TestListEquipmentFilter(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)
	ctx := context.Background()

	cam, err := svc.CreateEquipment(ctx, model.EquipmentSpec{
		Name: "Nikon D850", Category: model.CategoryPhotography,
		Condition: model.ConditionGood, Quantity: 1, Description: "full-frame DSLR",
	})
	require.NoError(t, err)
	_, err = svc.CreateEquipment(ctx, model.EquipmentSpec{
		Name: "Microscope", Category: model.CategoryLabEquipment,
		Condition: model.ConditionExcellent, Quantity: 2,
	})
	require.NoError(t, err)

	submit(t, svc, cam.EquipmentUid, "alice", 1)

	byCategory, err := svc.ListEquipment(ctx, model.EquipmentFilter{Category: model.CategoryPhotography})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	require.Equal(t, "Nikon D850", byCategory[0].Name)

	availableOnly, err := svc.ListEquipment(ctx, model.EquipmentFilter{AvailableOnly: true})
	require.NoError(t, err)
	require.Len(t, availableOnly, 1)
	require.Equal(t, "Microscope", availableOnly[0].Name)

	byKeyword, err := svc.ListEquipment(ctx, model.EquipmentFilter{Keyword: "dslr"})
	require.NoError(t, err)
	require.Len(t, byKeyword, 1)
	require.Equal(t, "Nikon D850", byKeyword[0].Name)

	all, err := svc.ListEquipment(ctx, model.EquipmentFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestListOverdue(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)
	ctx := context.Background()

	eq := newEquipment(t, svc, 3)

	approvedSoon := submit(t, svc, eq.EquipmentUid, "alice", 1) // due in 7 days
	_, err := svc.ApproveRequest(ctx, approvedSoon.RequestUid, "staff1")
	require.NoError(t, err)

	submit(t, svc, eq.EquipmentUid, "bob", 1) // stays PENDING

	now := time.Now().UTC()

	overdue, err := svc.ListOverdue(ctx, now, "")
	require.NoError(t, err)
	require.Empty(t, overdue, "due date in the future must not be overdue")

	overdue, err = svc.ListOverdue(ctx, now.AddDate(0, 0, 8), "")
	require.NoError(t, err)
	require.Len(t, overdue, 1, "only APPROVED requests become overdue")
	require.Equal(t, approvedSoon.RequestUid, overdue[0].RequestUid)

	// due date exactly on asOf is not yet overdue
	overdue, err = svc.ListOverdue(ctx, now.AddDate(0, 0, 7), "")
	require.NoError(t, err)
	require.Empty(t, overdue)
}

func TestListOverdueScoping(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)
	ctx := context.Background()

	eq := newEquipment(t, svc, 4)

	aliceReq := submit(t, svc, eq.EquipmentUid, "alice", 1)
	_, err := svc.ApproveRequest(ctx, aliceReq.RequestUid, "staff1")
	require.NoError(t, err)

	bobReq := submit(t, svc, eq.EquipmentUid, "bob", 1)
	_, err = svc.ApproveRequest(ctx, bobReq.RequestUid, "staff1")
	require.NoError(t, err)

	asOf := time.Now().UTC().AddDate(0, 0, 8)

	all, err := svc.ListOverdue(ctx, asOf, "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	mine, err := svc.ListOverdue(ctx, asOf, "alice")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, aliceReq.RequestUid, mine[0].RequestUid)

	none, err := svc.ListOverdue(ctx, asOf, "carol")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestListRequestsScoping(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)
	ctx := context.Background()

	eq := newEquipment(t, svc, 5)
	submit(t, svc, eq.EquipmentUid, "alice", 1)
	submit(t, svc, eq.EquipmentUid, "bob", 1)
	submit(t, svc, eq.EquipmentUid, "alice", 1)

	mine, err := svc.ListRequests(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	for _, br := range mine {
		require.Equal(t, "alice", br.Username)
	}

	all, err := svc.ListRequests(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestLifecycleEventsPublished(t *testing.T) {
	t.Parallel()
	svc, _, pub := newService(t)
	ctx := context.Background()

	eq := newEquipment(t, svc, 2)

	first := submit(t, svc, eq.EquipmentUid, "alice", 1)
	_, err := svc.ApproveRequest(ctx, first.RequestUid, "staff1")
	require.NoError(t, err)
	_, err = svc.ReturnRequest(ctx, first.RequestUid)
	require.NoError(t, err)

	second := submit(t, svc, eq.EquipmentUid, "bob", 1)
	_, err = svc.RejectRequest(ctx, second.RequestUid, "staff1")
	require.NoError(t, err)

	require.Equal(t, []string{
		service.EventRequestSubmitted,
		service.EventRequestApproved,
		service.EventRequestReturned,
		service.EventRequestSubmitted,
		service.EventRequestRejected,
	}, pub.names())
}
