package bootstrap

import (
	"database/sql"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/estatedesk/estate-backend/config"
	httpapi "github.com/estatedesk/estate-backend/internal/api/http"
	"github.com/estatedesk/estate-backend/internal/listings/code"
	"github.com/estatedesk/estate-backend/internal/listings/draft"
	listhttp "github.com/estatedesk/estate-backend/internal/listings/http"
	"github.com/estatedesk/estate-backend/internal/listings/repository"
	"github.com/estatedesk/estate-backend/internal/listings/service"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Storage     config.StorageConfig
	Operator    string
	DB          *pgxpool.Pool
	SQLDB       *sql.DB
	Redis       *redis.Client
	S3          *s3.Client
	Logger      *zap.Logger
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	api.Use(listhttp.OperatorToken(dep.Operator))

	projectRepo := repository.NewProjectRepository(dep.DB)
	blobStore := repository.NewS3Store(dep.S3, dep.Storage.Bucket, dep.Storage.Region)
	generator := code.NewGenerator(code.NewSequenceRepo(dep.SQLDB), dep.Logger)
	submitSvc := service.NewSubmitService(projectRepo, blobStore, generator, dep.Logger)
	snapshots := draft.NewSnapshotStore(dep.Redis)

	handler := listhttp.New(submitSvc, generator, snapshots, dep.Logger)

	// Submissions are heavyweight and not idempotent; keep a tight budget.
	limiter := rate.NewLimiter(rate.Every(time.Second), 5)
	handler.Register(api, listhttp.RateLimit(limiter))

	return r
}
