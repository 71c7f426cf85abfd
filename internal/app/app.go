package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsdevblog/groph-ledger/internal/config"
	"github.com/fsdevblog/groph-ledger/internal/repository/pgrepo"
	"github.com/fsdevblog/groph-ledger/internal/repository/repoargs"
	"github.com/fsdevblog/groph-ledger/internal/service"
	"github.com/fsdevblog/groph-ledger/internal/transport/api"
	"github.com/fsdevblog/groph-ledger/internal/transport/events"
	"github.com/fsdevblog/groph-ledger/internal/transport/payments/client"
	"github.com/fsdevblog/groph-ledger/internal/transport/queue"
	"github.com/fsdevblog/groph-ledger/internal/transport/sweeper"
	"github.com/fsdevblog/groph-ledger/pkg/uow"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	// driver for migration applying postgres.
	_ "github.com/golang-migrate/migrate/v4/database/postgres" //nolint:revive
	// driver to get migrations from files (*.sql in our case).
	_ "github.com/golang-migrate/migrate/v4/source/file" //nolint:revive
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
	// wallet row locks are short; a longer wait surfaces as a retriable conflict.
	walletLockTimeout = 5 * time.Second
)

type App struct {
	Config *config.Config
	Logger *logrus.Logger
}

func New(conf *config.Config, l *logrus.Logger) *App {
	return &App{
		Config: conf,
		Logger: l,
	}
}

// Run blocks until SIGINT/SIGTERM or until one of the components fails. A signal yields context.Canceled.
func (a *App) Run() (err error) {
	notifyCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.Logger.Infof("Starting app with config: %s", a.Config)
	conn, connErr := pgrepo.Connect(notifyCtx, a.Config.MigrationsDir, a.Config.DatabaseDSN, a.Logger)
	if connErr != nil {
		return fmt.Errorf("app run: %s", connErr.Error())
	}
	defer conn.Close()

	unitOfWork, uowErr := initUOW(conn)
	if uowErr != nil {
		return fmt.Errorf("app run: %s", uowErr.Error())
	}

	rdb, redisErr := events.ConnectRedis(notifyCtx, a.Config.RedisAddr, a.Config.RedisPassword)
	if redisErr != nil {
		return fmt.Errorf("app run: %s", redisErr.Error())
	}
	defer func() {
		err = errors.Join(err, rdb.Close())
	}()

	redisOpt := asynq.RedisClientOpt{Addr: a.Config.RedisAddr, Password: a.Config.RedisPassword}
	queueClient := asynq.NewClient(redisOpt)
	defer func() {
		err = errors.Join(err, queueClient.Close())
	}()

	services, sErr := service.Factory(unitOfWork, service.FactoryArgs{
		Publisher:         events.NewRedisPublisher(rdb, a.Logger),
		Provider:          client.New(a.Config.PaymentProviderURL, a.Config.PaymentProviderKey),
		Scheduler:         queue.NewScheduler(queueClient, a.Logger),
		Logger:            a.Logger,
		Currency:          a.Config.Currency,
		Fees:              service.DefaultFeeSchedule(a.Config.PlatformFeePercent),
		EscrowPolicy:      service.DefaultEscrowPolicy(),
		AutoReleaseWindow: a.Config.AutoReleaseWindow,
		TransferWorkers:   a.Config.TransferWorkers,
	})
	if sErr != nil {
		return fmt.Errorf("app run: %s", sErr.Error())
	}

	router, routerErr := api.New(api.RouterArgs{
		Logger:            a.Logger,
		WalletService:     services.Wallet,
		OrderService:      services.Order,
		PaymentService:    services.Payment,
		ReleaseService:    services.Release,
		EscrowService:     services.Escrow,
		SellerService:     services.Seller,
		WithdrawalService: services.Withdrawal,
		Currency:          a.Config.Currency,
		JWTSecretKey:      []byte(a.Config.JWTSecret),
	})
	if routerErr != nil {
		return fmt.Errorf("app run: %s", routerErr.Error())
	}

	httpServer := &http.Server{
		Addr:              a.Config.RunAddress,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	queueServer := queue.NewServer(redisOpt, a.Config.QueueConcurrency, a.Logger)
	ledgerSweeper := sweeper.New(sweeper.Jobs{
		Release:   services.Release,
		Escrow:    services.Escrow,
		Transfers: services.Payment,
		Sellers:   services.Seller,
	}, a.Logger).SetInterval(a.Config.SweepInterval)

	return a.serve(notifyCtx, components{
		http:    httpServer,
		queue:   queueServer,
		handler: queue.NewHandler(services.Payment, a.Logger).Mux(),
		sweep:   ledgerSweeper.Run,
	})
}

// taskServer is the part of *asynq.Server the app drives.
type taskServer interface {
	Start(handler asynq.Handler) error
	Shutdown()
}

type components struct {
	http    *http.Server
	queue   taskServer
	handler asynq.Handler
	sweep   func(ctx context.Context)
}

// serve runs the components until ctx is done or one of them fails.
func (a *App) serve(ctx context.Context, c components) error {
	// nothing listens yet, so a failed start leaves no goroutine behind.
	if startErr := c.queue.Start(c.handler); startErr != nil {
		return fmt.Errorf("app run: start queue server: %s", startErr.Error())
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if runErr := c.http.ListenAndServe(); runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", runErr)
		}
		return nil
	})

	g.Go(func() error {
		c.sweep(gCtx)
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		a.Logger.Info("shutting down")

		c.queue.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if shutdownErr := c.http.Shutdown(shutdownCtx); shutdownErr != nil {
			return fmt.Errorf("http server shutdown: %w", shutdownErr)
		}
		return nil
	})

	if waitErr := g.Wait(); waitErr != nil {
		return waitErr
	}
	return ctx.Err() //nolint:wrapcheck
}

type repoFactory struct {
	name repoargs.RepositoryName
	fn   uow.RepositoryFactory
}

func initUOW(conn *pgxpool.Pool) (*uow.UnitOfWork, error) {
	unitOfWork := uow.NewUnitOfWork(conn).SetLockTimeout(walletLockTimeout)

	repos := []repoFactory{
		{name: repoargs.WalletRepoName, fn: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewWalletRepository(dbtx)
		}},
		{name: repoargs.TransactionRepoName, fn: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewTransactionRepository(dbtx)
		}},
		{name: repoargs.SellerRepoName, fn: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewSellerRepository(dbtx)
		}},
		{name: repoargs.OrderRepoName, fn: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewOrderRepository(dbtx)
		}},
		{name: repoargs.WithdrawalRepoName, fn: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewWithdrawalRepository(dbtx)
		}},
	}
	for _, repo := range repos {
		if regErr := unitOfWork.Register(uow.RepositoryName(repo.name), repo.fn); regErr != nil {
			return nil, fmt.Errorf("init UOW: %s", regErr.Error())
		}
	}

	return unitOfWork, nil
}
