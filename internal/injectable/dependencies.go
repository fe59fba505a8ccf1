package injectable

import (
	"github.com/provat/codetriage/internal/application/service"
	"github.com/provat/codetriage/internal/config"
	domainrepo "github.com/provat/codetriage/internal/domain/repository"
	domainservice "github.com/provat/codetriage/internal/domain/service"
	"github.com/provat/codetriage/internal/infrastructure/database"
	"github.com/provat/codetriage/internal/infrastructure/github"
	"github.com/provat/codetriage/internal/infrastructure/mail"
	"github.com/provat/codetriage/internal/infrastructure/repository"
)

// Dependencies holds all the dependencies required by the router
type Dependencies struct {
	// Repositories
	UserRepo domainrepo.UserRepository

	// Infrastructure
	GitHub domainservice.GitHubService
	Mailer domainservice.MailService

	// Services
	OAuthService        *service.OAuthService
	SyncService         *service.SyncService
	RepoService         *service.RepoService
	IssueService        *service.IssueService
	SubscriptionService *service.SubscriptionService
	UserService         *service.UserService
	DigestService       *service.DigestService
	DigestCron          *service.DigestCronService
}

func LoadDependencies(cfg *config.Config, db *database.Database) Dependencies {
	// Initialize repositories
	userRepo := repository.NewUserRepository(db.DB())
	repoRepo := repository.NewRepoRepository(db.DB())
	issueRepo := repository.NewIssueRepository(db.DB())
	subRepo := repository.NewSubscriptionRepository(db.DB())
	sentLogRepo := repository.NewSentLogRepository(db.DB())

	// Initialize GitHub API client
	githubClient := github.NewClient(&cfg.GitHub)

	// Initialize mail delivery. Development mode and missing SMTP config
	// both fall back to logging outgoing mail instead of sending it.
	var mailer domainservice.MailService
	if cfg.Mail.IsConfigured() && !cfg.IsDevelopment() {
		smtpMailer, err := mail.NewSMTPMailer(&cfg.Mail)
		if err != nil {
			panic("Failed to initialize SMTP mailer: " + err.Error())
		}
		mailer = smtpMailer
	} else {
		mailer = mail.NewLogMailer()
	}

	// Initialize services
	syncService := service.NewSyncService(repoRepo, issueRepo, githubClient)
	oauthService := service.NewOAuthService(&cfg.GitHub, &cfg.Auth, userRepo, githubClient, syncService)
	dispatchService := service.NewDispatchService(sentLogRepo, issueRepo, subRepo, mailer)
	digestService := service.NewDigestService(subRepo, issueRepo, sentLogRepo, dispatchService)
	digestCron := service.NewDigestCronService(digestService, &cfg.Digest)

	repoService := service.NewRepoService(repoRepo, syncService)
	issueService := service.NewIssueService(repoRepo, issueRepo)
	subscriptionService := service.NewSubscriptionService(subRepo, repoRepo)
	userService := service.NewUserService(userRepo)

	return Dependencies{
		UserRepo:            userRepo,
		GitHub:              githubClient,
		Mailer:              mailer,
		OAuthService:        oauthService,
		SyncService:         syncService,
		RepoService:         repoService,
		IssueService:        issueService,
		SubscriptionService: subscriptionService,
		UserService:         userService,
		DigestService:       digestService,
		DigestCron:          digestCron,
	}
}
