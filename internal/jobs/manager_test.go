package jobs_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/nephra-go/internal/config"
	"github.com/vrsandeep/nephra-go/internal/jobs"
	"github.com/vrsandeep/nephra-go/internal/store"
	"github.com/vrsandeep/nephra-go/internal/testutil"
)

type fakeJobContext struct {
	cfg    *config.Config
	st     *store.Store
	jobMgr *jobs.JobManager
}

func (f *fakeJobContext) Config() *config.Config       { return f.cfg }
func (f *fakeJobContext) Store() *store.Store          { return f.st }
func (f *fakeJobContext) JobManager() *jobs.JobManager { return f.jobMgr }

func newFakeJobContext() *fakeJobContext {
	ctx := &fakeJobContext{cfg: &config.Config{}}
	ctx.jobMgr = jobs.NewManager(ctx)
	return ctx
}

func TestManager_NewManager(t *testing.T) {
	ctx := newFakeJobContext()
	assert.NotNil(t, ctx.jobMgr)
	assert.Empty(t, ctx.jobMgr.GetStatus())
}

func TestManager_RegisterAndGetStatus(t *testing.T) {
	mgr := newFakeJobContext().jobMgr
	mgr.Register("jobB", "Job B", func(ctx jobs.JobContext) error { return nil })
	mgr.Register("jobA", "Job A", func(ctx jobs.JobContext) error { return nil })

	statuses := mgr.GetStatus()
	require.Len(t, statuses, 2)
	assert.Equal(t, "jobA", statuses[0].ID)
	assert.Equal(t, "Job A", statuses[0].Name)
	assert.Equal(t, "idle", statuses[0].Status)
	assert.Equal(t, "jobB", statuses[1].ID)
}

func TestManager_RunJob(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ctx := newFakeJobContext()
		mgr := ctx.jobMgr
		called := false
		mgr.Register("jobX", "Job X", func(ctx jobs.JobContext) error {
			called = true
			return nil
		})

		require.NoError(t, mgr.RunJob("jobX", ctx))
		mgr.Wait()
		assert.True(t, called)
		assert.Equal(t, "success", mgr.GetStatus()[0].Status)
	})

	t.Run("failure", func(t *testing.T) {
		mgr := newFakeJobContext().jobMgr
		mgr.Register("jobF", "Job F", func(ctx jobs.JobContext) error { return errors.New("boom") })

		require.NoError(t, mgr.RunJob("jobF", nil))
		mgr.Wait()
		status := mgr.GetStatus()[0]
		assert.Equal(t, "failed", status.Status)
		assert.Equal(t, "boom", status.Message)
	})

	t.Run("panic", func(t *testing.T) {
		mgr := newFakeJobContext().jobMgr
		mgr.Register("jobP", "Job P", func(ctx jobs.JobContext) error { panic("oops") })

		require.NoError(t, mgr.RunJob("jobP", nil))
		mgr.Wait()
		status := mgr.GetStatus()[0]
		assert.Equal(t, "failed", status.Status)
		assert.Contains(t, status.Message, "oops")
	})

	t.Run("already running", func(t *testing.T) {
		mgr := newFakeJobContext().jobMgr
		block := make(chan struct{})
		mgr.Register("jobY", "Job Y", func(ctx jobs.JobContext) error {
			<-block
			return nil
		})
		require.NoError(t, mgr.RunJob("jobY", nil))
		assert.Error(t, mgr.RunJob("jobY", nil))
		close(block)
		mgr.Wait()
		assert.NoError(t, mgr.RunJob("jobY", nil))
		mgr.Wait()
	})

	t.Run("not found", func(t *testing.T) {
		mgr := newFakeJobContext().jobMgr
		err := mgr.RunJob("missing", nil)
		assert.EqualError(t, err, "job 'missing' not found")
	})
}

func TestRunSessionCleanup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := newFakeJobContext()
	ctx.st = store.New(db)

	user, err := ctx.st.CreateUser("reader@example.com", "hash")
	require.NoError(t, err)
	live, err := ctx.st.CreateSession(user.ID)
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO sessions (token, user_id, expiry) VALUES ('old', ?, ?)", user.ID, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)

	jobs.RegisterJobs(ctx.jobMgr)
	require.NoError(t, ctx.jobMgr.RunJob(jobs.SessionCleanupJobID, ctx))
	ctx.jobMgr.Wait()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&count))
	assert.Equal(t, 1, count)
	_, err = ctx.st.GetUserFromSession(live)
	assert.NoError(t, err)
	assert.Equal(t, "success", ctx.jobMgr.GetStatus()[0].Status)
}
