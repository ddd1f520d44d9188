package bootstrap

import (
	"context"

	"github.com/hossamkoky599/crowdfund/internal/config"
	"github.com/hossamkoky599/crowdfund/internal/infra/blob"
	"github.com/hossamkoky599/crowdfund/internal/infra/cache"
	"github.com/hossamkoky599/crowdfund/internal/infra/db"
	"github.com/hossamkoky599/crowdfund/internal/infra/logger"
	"github.com/hossamkoky599/crowdfund/internal/infra/queue"
	"github.com/hossamkoky599/crowdfund/internal/modules/handler"
	"github.com/hossamkoky599/crowdfund/internal/modules/model"
	"github.com/hossamkoky599/crowdfund/internal/modules/repo"
	"github.com/hossamkoky599/crowdfund/internal/modules/service"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func BuildContainer() *do.Injector {
	inj := do.New()

	// config
	do.Provide(inj, func(i *do.Injector) (*config.Config, error) {
		return config.Load()
	})

	// logger
	do.Provide(inj, func(i *do.Injector) (*zap.Logger, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return logger.New(cfg.Log.Level)
	})

	// DB
	do.Provide(inj, func(i *do.Injector) (*gorm.DB, error) {
		cfg := do.MustInvoke[*config.Config](i)
		d, err := db.New(cfg)
		if err != nil {
			return nil, err
		}
		// [optional] auto migrate
		if cfg.Database.AutoMigrate {
			_ = d.AutoMigrate(
				&model.User{},
				&model.ExtraInfo{},
				&model.EmailActivation{},
				&model.PasswordReset{},
				&model.Category{},
				&model.Tag{},
				&model.Project{},
				&model.ProjectImage{},
				&model.Donation{},
				&model.Rating{},
				&model.Comment{},
				&model.Report{},
			)
		}
		return d, nil
	})

	// Redis
	do.Provide(inj, func(i *do.Injector) (*redis.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return cache.New(cfg), nil
	})

	// RabbitMQ Connection
	do.Provide(inj, func(i *do.Injector) (*amqp.Connection, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return amqp.Dial(cfg.RabbitMQ.URL)
	})

	// Mail outbox publisher
	do.Provide(inj, func(i *do.Injector) (*queue.Publisher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return queue.NewPublisher(
			do.MustInvoke[*amqp.Connection](i),
			cfg.RabbitMQ.MailQueue,
			do.MustInvoke[*zap.Logger](i),
		)
	})

	// S3
	do.Provide(inj, func(i *do.Injector) (*blob.S3Deps, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return blob.NewS3(context.Background(), cfg)
	})

	// Repo
	do.Provide(inj, func(i *do.Injector) (repo.UserRepo, error) {
		return repo.NewUserRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.TaxonomyRepo, error) {
		return repo.NewTaxonomyRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.ProjectRepo, error) {
		return repo.NewProjectRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.DonationRepo, error) {
		return repo.NewDonationRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.RatingRepo, error) {
		return repo.NewRatingRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.CommentRepo, error) {
		return repo.NewCommentRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.ReportRepo, error) {
		return repo.NewReportRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.FeedRepo, error) {
		return repo.NewFeedRepo(do.MustInvoke[*gorm.DB](i)), nil
	})

	// Service
	do.Provide(inj, func(i *do.Injector) (service.AccountService, error) {
		return service.NewAccountService(
			do.MustInvoke[repo.UserRepo](i),
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[*zap.Logger](i),
			do.MustInvoke[*blob.S3Deps](i),
			do.MustInvoke[*queue.Publisher](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.ProjectService, error) {
		return service.NewProjectService(
			do.MustInvoke[repo.ProjectRepo](i),
			do.MustInvoke[repo.TaxonomyRepo](i),
			do.MustInvoke[repo.RatingRepo](i),
			do.MustInvoke[*blob.S3Deps](i),
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.DonationService, error) {
		return service.NewDonationService(
			do.MustInvoke[repo.DonationRepo](i),
			do.MustInvoke[repo.ProjectRepo](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.RatingService, error) {
		return service.NewRatingService(
			do.MustInvoke[repo.RatingRepo](i),
			do.MustInvoke[repo.ProjectRepo](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.EngagementService, error) {
		return service.NewEngagementService(
			do.MustInvoke[repo.CommentRepo](i),
			do.MustInvoke[repo.ReportRepo](i),
			do.MustInvoke[repo.ProjectRepo](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.FeedService, error) {
		return service.NewFeedService(
			do.MustInvoke[repo.FeedRepo](i),
			do.MustInvoke[*redis.Client](i),
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	// Handler
	do.Provide(inj, func(i *do.Injector) (*handler.AccountHandler, error) {
		return handler.NewAccountHandler(do.MustInvoke[service.AccountService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.ProjectHandler, error) {
		return handler.NewProjectHandler(do.MustInvoke[service.ProjectService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.DonationHandler, error) {
		return handler.NewDonationHandler(do.MustInvoke[service.DonationService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.RatingHandler, error) {
		return handler.NewRatingHandler(do.MustInvoke[service.RatingService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.EngagementHandler, error) {
		return handler.NewEngagementHandler(do.MustInvoke[service.EngagementService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.FeedHandler, error) {
		return handler.NewFeedHandler(do.MustInvoke[service.FeedService](i)), nil
	})

	return inj
}
