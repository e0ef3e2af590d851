package workerrepo_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/workerrepo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/worker"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// WorkerRepositoryIntegrationTestSuite exercises worker persistence, the
// region lookup and the bounded capacity increment against real PostgreSQL.
type WorkerRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *workerrepo.GormWorkerRepository
	tracker    *MockAggregateTracker
}

func (suite *WorkerRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&workerrepo.WorkerDTO{}, &workerrepo.ServiceAreaDTO{}))
}

func (suite *WorkerRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE workers, worker_service_areas").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = workerrepo.NewGormWorkerRepository(suite.db, suite.tracker)
}

func (suite *WorkerRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *WorkerRepositoryIntegrationTestSuite) createTestWorker(maxJobs int, regions ...string) *worker.Worker {
	areas := make([]kernel.RegionCode, 0, len(regions))
	for _, code := range regions {
		region, err := kernel.NewRegionCode(code)
		suite.Require().NoError(err)
		areas = append(areas, region)
	}

	testWorker, err := worker.RestoreWorker(kernel.NewUUID(), "Test Worker",
		true, worker.VerificationApproved, false, 4.5, 0, 0, maxJobs, areas)
	suite.Require().NoError(err)
	return testWorker
}

func (suite *WorkerRepositoryIntegrationTestSuite) TestAddAndGet_RoundTrip() {
	ctx := context.Background()
	testWorker := suite.createTestWorker(3, "north", "south")

	suite.tracker.On("TrackAggregate", testWorker.ID(), testWorker).Once()
	suite.Require().NoError(suite.repository.Add(ctx, testWorker))

	restored, err := suite.repository.Get(ctx, testWorker.ID())
	suite.Require().NoError(err)
	suite.Equal(testWorker.ID().String(), restored.ID().String())
	suite.Equal(worker.VerificationApproved, restored.Verification())
	suite.Len(restored.ServiceAreas(), 2)
}

func (suite *WorkerRepositoryIntegrationTestSuite) TestGetByRegion_ReturnsOnlyServingWorkers() {
	ctx := context.Background()

	northWorker := suite.createTestWorker(3, "north")
	southWorker := suite.createTestWorker(3, "south")
	bothWorker := suite.createTestWorker(3, "north", "south")

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Times(3)
	suite.Require().NoError(suite.repository.Add(ctx, northWorker))
	suite.Require().NoError(suite.repository.Add(ctx, southWorker))
	suite.Require().NoError(suite.repository.Add(ctx, bothWorker))

	region, err := kernel.NewRegionCode("north")
	suite.Require().NoError(err)

	found, err := suite.repository.GetByRegion(ctx, region)
	suite.Require().NoError(err)
	suite.Len(found, 2)

	ids := make(map[string]bool, len(found))
	for _, w := range found {
		ids[w.ID().String()] = true
	}
	suite.True(ids[northWorker.ID().String()])
	suite.True(ids[bothWorker.ID().String()])
	suite.False(ids[southWorker.ID().String()])
}

func (suite *WorkerRepositoryIntegrationTestSuite) TestClaimCapacity_StopsAtLimit() {
	ctx := context.Background()
	testWorker := suite.createTestWorker(2, "north")

	suite.tracker.On("TrackAggregate", testWorker.ID(), testWorker).Once()
	suite.Require().NoError(suite.repository.Add(ctx, testWorker))

	claimed, err := suite.repository.ClaimCapacity(ctx, testWorker.ID(), 3)
	suite.Require().NoError(err)
	suite.True(claimed)

	claimed, err = suite.repository.ClaimCapacity(ctx, testWorker.ID(), 3)
	suite.Require().NoError(err)
	suite.True(claimed)

	// Limit of two is reached; the third claim must fail.
	claimed, err = suite.repository.ClaimCapacity(ctx, testWorker.ID(), 3)
	suite.Require().NoError(err)
	suite.False(claimed)
}

func (suite *WorkerRepositoryIntegrationTestSuite) TestClaimCapacity_DefaultLimitApplies() {
	ctx := context.Background()
	testWorker := suite.createTestWorker(0, "north")

	suite.tracker.On("TrackAggregate", testWorker.ID(), testWorker).Once()
	suite.Require().NoError(suite.repository.Add(ctx, testWorker))

	claimed, err := suite.repository.ClaimCapacity(ctx, testWorker.ID(), 1)
	suite.Require().NoError(err)
	suite.True(claimed)

	claimed, err = suite.repository.ClaimCapacity(ctx, testWorker.ID(), 1)
	suite.Require().NoError(err)
	suite.False(claimed)
}

func (suite *WorkerRepositoryIntegrationTestSuite) TestClaimCapacity_ConcurrentClaimsBounded() {
	ctx := context.Background()
	testWorker := suite.createTestWorker(3, "north")

	suite.tracker.On("TrackAggregate", testWorker.ID(), testWorker).Once()
	suite.Require().NoError(suite.repository.Add(ctx, testWorker))

	const claims = 10
	results := make(chan bool, claims)
	for range claims {
		go func() {
			claimed, err := suite.repository.ClaimCapacity(ctx, testWorker.ID(), 3)
			suite.NoError(err)
			results <- claimed
		}()
	}

	granted := 0
	for range claims {
		if <-results {
			granted++
		}
	}
	suite.Equal(3, granted)
}

func (suite *WorkerRepositoryIntegrationTestSuite) TestReleaseCapacity_CreditsJob() {
	ctx := context.Background()
	testWorker := suite.createTestWorker(3, "north")

	suite.tracker.On("TrackAggregate", testWorker.ID(), testWorker).Once()
	suite.Require().NoError(suite.repository.Add(ctx, testWorker))

	claimed, err := suite.repository.ClaimCapacity(ctx, testWorker.ID(), 3)
	suite.Require().NoError(err)
	suite.True(claimed)

	suite.Require().NoError(suite.repository.ReleaseCapacity(ctx, testWorker.ID()))

	restored, err := suite.repository.Get(ctx, testWorker.ID())
	suite.Require().NoError(err)
	suite.Equal(0, restored.CurrentActiveJobs())
	suite.Equal(1, restored.TotalJobs())
}

func (suite *WorkerRepositoryIntegrationTestSuite) TestReleaseClaim_FreesSlotWithoutCreditingJob() {
	ctx := context.Background()
	testWorker := suite.createTestWorker(3, "north")

	suite.tracker.On("TrackAggregate", testWorker.ID(), testWorker).Once()
	suite.Require().NoError(suite.repository.Add(ctx, testWorker))

	claimed, err := suite.repository.ClaimCapacity(ctx, testWorker.ID(), 3)
	suite.Require().NoError(err)
	suite.True(claimed)

	suite.Require().NoError(suite.repository.ReleaseClaim(ctx, testWorker.ID()))

	restored, err := suite.repository.Get(ctx, testWorker.ID())
	suite.Require().NoError(err)
	suite.Equal(0, restored.CurrentActiveJobs())
	suite.Equal(0, restored.TotalJobs())
}

func (suite *WorkerRepositoryIntegrationTestSuite) TestReleaseClaim_FloorsAtZero() {
	ctx := context.Background()
	testWorker := suite.createTestWorker(3, "north")

	suite.tracker.On("TrackAggregate", testWorker.ID(), testWorker).Once()
	suite.Require().NoError(suite.repository.Add(ctx, testWorker))

	suite.Require().NoError(suite.repository.ReleaseClaim(ctx, testWorker.ID()))

	restored, err := suite.repository.Get(ctx, testWorker.ID())
	suite.Require().NoError(err)
	suite.Equal(0, restored.CurrentActiveJobs())
}

func (suite *WorkerRepositoryIntegrationTestSuite) TestReleaseClaim_UnknownWorker() {
	ctx := context.Background()

	err := suite.repository.ReleaseClaim(ctx, kernel.NewUUID())
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func TestWorkerRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(WorkerRepositoryIntegrationTestSuite))
}
