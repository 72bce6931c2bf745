package task_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tangakou/msaada/core"
	"github.com/tangakou/msaada/core/task"
	"github.com/tangakou/msaada/core/user"
	logsvc "github.com/tangakou/msaada/services/logger"
	inmemdb "github.com/tangakou/msaada/storage/inmem"
)

func setup(t *testing.T) *task.Service {
	t.Helper()
	return task.NewService(inmemdb.NewTaskRepository(inmemdb.Open()), logsvc.NopLogger{})
}

func tenantUsers() (admin, staff, volunteer user.User) {
	ngoID := primitive.NewObjectID()
	admin = user.User{ID: primitive.NewObjectID(), Role: user.RoleAdmin, NGOID: ngoID, Status: user.StatusApproved}
	staff = user.User{ID: primitive.NewObjectID(), Role: user.RoleStaff, NGOID: ngoID, Status: user.StatusApproved}
	volunteer = user.User{ID: primitive.NewObjectID(), Role: user.RoleVolunteer, NGOID: ngoID, Status: user.StatusApproved}
	return
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)
	admin, _, volunteer := tenantUsers()

	tsk, err := svc.Create(ctx, admin, task.NewTask{Title: "Pack food parcels", AssignedTo: volunteer.ID})
	require.NoError(t, err)
	assert.Equal(t, task.StatusPending, tsk.Status)
	assert.Equal(t, admin.NGOID, tsk.NGOID)

	// actor without an NGO cannot create
	_, err = svc.Create(ctx, user.User{Role: user.RoleSuperAdmin}, task.NewTask{Title: "nope"})
	_, ok := errors.Cause(err).(*core.ValidationError)
	assert.True(t, ok, "want validation error, got %v", err)
}

func TestService_Query_volunteerOnlySeesOwnTasks(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)
	admin, staff, volunteer := tenantUsers()

	mine, err := svc.Create(ctx, admin, task.NewTask{Title: "Visit shelter", AssignedTo: volunteer.ID})
	require.NoError(t, err)
	_, err = svc.Create(ctx, admin, task.NewTask{Title: "Budget review", AssignedTo: staff.ID})
	require.NoError(t, err)

	tasks, err := svc.Query(ctx, volunteer)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, mine.ID, tasks[0].ID)

	tasks, err = svc.Query(ctx, staff)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestService_UpdateStatus_volunteer(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)
	admin, _, volunteer := tenantUsers()

	tsk, err := svc.Create(ctx, admin, task.NewTask{Title: "Visit shelter", AssignedTo: volunteer.ID})
	require.NoError(t, err)

	// pending/in-progress pass through
	got, err := svc.UpdateStatus(ctx, volunteer, tsk.ID, task.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, task.StatusInProgress, got.Status)

	// completed is rewritten to pending_confirmation
	got, err = svc.UpdateStatus(ctx, volunteer, tsk.ID, task.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, task.StatusPendingConfirmation, got.Status)

	// anything else is rejected
	_, err = svc.UpdateStatus(ctx, volunteer, tsk.ID, task.StatusPendingConfirmation)
	_, ok := errors.Cause(err).(*core.ValidationError)
	assert.True(t, ok, "want validation error, got %v", err)
}

func TestService_UpdateStatus_adminSetsAnyValidStatus(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)
	admin, _, _ := tenantUsers()

	tsk, err := svc.Create(ctx, admin, task.NewTask{Title: "Budget review"})
	require.NoError(t, err)

	got, err := svc.UpdateStatus(ctx, admin, tsk.ID, task.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, task.StatusCompleted, got.Status)

	_, err = svc.UpdateStatus(ctx, admin, tsk.ID, task.Status("bogus"))
	_, ok := errors.Cause(err).(*core.ValidationError)
	assert.True(t, ok, "want validation error, got %v", err)
}

func TestService_Confirm(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)
	admin, _, volunteer := tenantUsers()

	tsk, err := svc.Create(ctx, admin, task.NewTask{Title: "Visit shelter", AssignedTo: volunteer.ID})
	require.NoError(t, err)

	// not awaiting confirmation yet
	_, err = svc.Confirm(ctx, admin, tsk.ID)
	_, ok := errors.Cause(err).(*core.ValidationError)
	assert.True(t, ok, "want validation error, got %v", err)

	_, err = svc.UpdateStatus(ctx, volunteer, tsk.ID, task.StatusCompleted)
	require.NoError(t, err)

	got, err := svc.Confirm(ctx, admin, tsk.ID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusCompleted, got.Status)

	// confirming twice fails: the task is no longer awaiting confirmation
	_, err = svc.Confirm(ctx, admin, tsk.ID)
	_, ok = errors.Cause(err).(*core.ValidationError)
	assert.True(t, ok, "want validation error, got %v", err)
}

func TestService_crossTenantAccess(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)
	admin, _, _ := tenantUsers()
	otherAdmin, _, otherVolunteer := tenantUsers()

	tsk, err := svc.Create(ctx, admin, task.NewTask{Title: "Pack food parcels"})
	require.NoError(t, err)

	// fetch miss is a 404, tenant mismatch a denial
	_, err = svc.GetByID(ctx, admin, primitive.NewObjectID())
	assert.Equal(t, core.ErrNotFound, errors.Cause(err))

	_, err = svc.GetByID(ctx, otherAdmin, tsk.ID)
	assert.Equal(t, core.ErrPermissionDenied, errors.Cause(err))

	// a cross-tenant status update is denied and leaves the task unchanged
	_, err = svc.UpdateStatus(ctx, otherVolunteer, tsk.ID, task.StatusCompleted)
	assert.Equal(t, core.ErrPermissionDenied, errors.Cause(err))

	got, err := svc.GetByID(ctx, admin, tsk.ID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusPending, got.Status)

	err = svc.Delete(ctx, otherAdmin, tsk.ID)
	assert.Equal(t, core.ErrPermissionDenied, errors.Cause(err))
}
