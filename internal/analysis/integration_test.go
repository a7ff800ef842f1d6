package analysis

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/minio"
	pgContainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/davisolsen/planpick/internal/repository/postgres"
	"github.com/davisolsen/planpick/internal/storage"
	"github.com/davisolsen/planpick/pkg/models"
)

// TestContainer holds test infrastructure
type TestContainer struct {
	postgresContainer testcontainers.Container
	minioContainer    testcontainers.Container
	dbURL             string
	minioURL          string
	bucketName        string
}

// SetupIntegrationTest sets up PostgreSQL and MinIO containers for integration testing
func SetupIntegrationTest(t *testing.T) *TestContainer {
	t.Helper()

	ctx := context.Background()

	pg, err := pgContainer.Run(ctx,
		"postgres:15-alpine",
		pgContainer.WithDatabase("planpick_test"),
		pgContainer.WithUsername("testuser"),
		pgContainer.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)

	dbURL, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	minioContainer, err := minio.Run(ctx,
		"minio/minio:RELEASE.2024-10-29T16-01-48Z",
		minio.WithUsername("minioadmin"),
		minio.WithPassword("minioadmin"),
	)
	require.NoError(t, err)

	minioURL, err := minioContainer.ConnectionString(ctx)
	require.NoError(t, err)

	bucketName := "planpick-test-" + uuid.New().String()[:8]
	require.NoError(t, createMinioBucket(ctx, minioURL, bucketName))

	return &TestContainer{
		postgresContainer: pg,
		minioContainer:    minioContainer,
		dbURL:             dbURL,
		minioURL:          minioURL,
		bucketName:        bucketName,
	}
}

// CleanupIntegrationTest cleans up test containers
func (tc *TestContainer) CleanupIntegrationTest(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	if tc.minioContainer != nil {
		require.NoError(t, tc.minioContainer.Terminate(ctx))
	}
	if tc.postgresContainer != nil {
		require.NoError(t, tc.postgresContainer.Terminate(ctx))
	}
}

// minioClient builds a raw S3 client pointed at the MinIO container
func minioClient(ctx context.Context, minioURL string) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("us-east-1"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("minioadmin", "minioadmin", "")))
	if err != nil {
		return nil, err
	}

	endpoint := minioURL
	if !strings.HasPrefix(endpoint, "http://") {
		endpoint = "http://" + endpoint
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = &endpoint
		o.UsePathStyle = true
	}), nil
}

func createMinioBucket(ctx context.Context, minioURL, bucketName string) error {
	client, err := minioClient(ctx, minioURL)
	if err != nil {
		return err
	}
	_, err = client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(bucketName)})
	return err
}

func uploadTestFile(t *testing.T, tc *TestContainer, key string, data []byte) {
	t.Helper()

	ctx := context.Background()
	client, err := minioClient(ctx, tc.minioURL)
	require.NoError(t, err)

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(tc.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/pdf"),
	})
	require.NoError(t, err)
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()

	schema, err := os.ReadFile("../../migrations/000001_init.up.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)
}

// stubVisionClient returns a canned payload instead of calling a model
type stubVisionClient struct {
	payload map[string]interface{}
	err     error
}

func (c *stubVisionClient) AnalyzeFloorPlan(ctx context.Context, file []byte, mimeType string) (map[string]interface{}, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.payload, nil
}

// TestBlueprintPipeline_Integration runs the full pipeline against real
// PostgreSQL and MinIO: stored file in, sanitized analysis record out.
func TestBlueprintPipeline_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tc := SetupIntegrationTest(t)
	defer tc.CleanupIntegrationTest(t)

	ctx := context.Background()

	db, err := sql.Open("postgres", tc.dbURL)
	require.NoError(t, err)
	defer db.Close()

	applyMigrations(t, db)

	repo := postgres.NewPostgresBlueprintRepository(db)

	s3Service, err := storage.NewS3Service(storage.S3Config{
		Bucket:    tc.bucketName,
		Endpoint:  tc.minioURL,
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
	})
	require.NoError(t, err)

	projectID := uuid.New()
	_, err = db.Exec(
		`INSERT INTO projects (id, name, status, catalog_id) VALUES ($1, $2, $3, $4)`,
		projectID, "Pipeline Test", models.ProjectStatusDraft, uuid.New())
	require.NoError(t, err)

	blueprintID := uuid.New()
	fileKey := "blueprints/" + blueprintID.String() + ".pdf"
	uploadTestFile(t, tc, fileKey, []byte("%PDF-1.4 test blueprint"))

	require.NoError(t, repo.Create(ctx, &models.Blueprint{
		ID:        blueprintID.String(),
		ProjectID: projectID.String(),
		Status:    models.BlueprintStatusPending,
		FileS3Key: &fileKey,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}))

	// The vision payload carries the usual model noise: out-of-range
	// confidence and a square footage that disagrees with the geometry.
	visionClient := &stubVisionClient{payload: map[string]interface{}{
		"rooms": []interface{}{
			map[string]interface{}{
				"name":       "Kitchen",
				"type":       "kitchen",
				"confidence": 1.3,
				"dimensions": map[string]interface{}{"length": 12.0, "width": 10.0, "squareFootage": 15.0},
				"features":   []interface{}{"island"},
			},
			map[string]interface{}{
				"type":       "garage",
				"dimensions": map[string]interface{}{},
			},
		},
		"totalSquareFootage": 220.0,
		"floorCount":         1.0,
	}}

	svc := NewService(s3Service, repo, visionClient)
	require.NoError(t, svc.ProcessBlueprint(ctx, blueprintID))

	blueprint, err := repo.GetByID(ctx, blueprintID)
	require.NoError(t, err)
	assert.Equal(t, models.BlueprintStatusCompleted, blueprint.Status)
	assert.Equal(t, 100, blueprint.Progress)
	assert.NotNil(t, blueprint.CompletedAt)

	stored, err := repo.GetAnalysis(ctx, blueprintID)
	require.NoError(t, err)
	require.Len(t, stored.Record.Rooms, 2)

	kitchen := stored.Record.Rooms[0]
	assert.Equal(t, 120.0, kitchen.Dimensions.SquareFootage)
	assert.Equal(t, 0.5, kitchen.Confidence)
	assert.Equal(t, []string{"island"}, kitchen.Features)

	other := stored.Record.Rooms[1]
	assert.Equal(t, "other", other.Type)
	assert.Equal(t, "Room 2", other.Name)
	assert.Equal(t, 100.0, other.Dimensions.SquareFootage)

	assert.NotEmpty(t, stored.Warnings)
}

// TestBlueprintPipelineMissingFile_Integration verifies failures land in the
// failed status instead of propagating.
func TestBlueprintPipelineMissingFile_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tc := SetupIntegrationTest(t)
	defer tc.CleanupIntegrationTest(t)

	ctx := context.Background()

	db, err := sql.Open("postgres", tc.dbURL)
	require.NoError(t, err)
	defer db.Close()

	applyMigrations(t, db)

	repo := postgres.NewPostgresBlueprintRepository(db)

	s3Service, err := storage.NewS3Service(storage.S3Config{
		Bucket:    tc.bucketName,
		Endpoint:  tc.minioURL,
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
	})
	require.NoError(t, err)

	projectID := uuid.New()
	_, err = db.Exec(
		`INSERT INTO projects (id, name, status, catalog_id) VALUES ($1, $2, $3, $4)`,
		projectID, "Pipeline Failure Test", models.ProjectStatusDraft, uuid.New())
	require.NoError(t, err)

	blueprintID := uuid.New()
	missingKey := "blueprints/does-not-exist.pdf"
	require.NoError(t, repo.Create(ctx, &models.Blueprint{
		ID:        blueprintID.String(),
		ProjectID: projectID.String(),
		Status:    models.BlueprintStatusPending,
		FileS3Key: &missingKey,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}))

	svc := NewService(s3Service, repo, &stubVisionClient{})
	require.NoError(t, svc.ProcessBlueprint(ctx, blueprintID))

	blueprint, err := repo.GetByID(ctx, blueprintID)
	require.NoError(t, err)
	assert.Equal(t, models.BlueprintStatusFailed, blueprint.Status)
	require.NotNil(t, blueprint.ErrorMsg)
	assert.Equal(t, "Failed to download blueprint file", *blueprint.ErrorMsg)
}
