package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bsm/redislock"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpadp "invoicelane-backend/internal/adapter/http"
	appmw "invoicelane-backend/internal/adapter/middleware"
	"invoicelane-backend/internal/adapter/repository/mysql"
	"invoicelane-backend/internal/config"
	"invoicelane-backend/internal/infrastructure/cache"
	"invoicelane-backend/internal/infrastructure/db"
	"invoicelane-backend/internal/ledger"
	authUC "invoicelane-backend/internal/usecase/auth"
	invoiceUC "invoicelane-backend/internal/usecase/invoice"
	marketplaceUC "invoicelane-backend/internal/usecase/marketplace"
	settlementUC "invoicelane-backend/internal/usecase/settlement"
	"invoicelane-backend/pkg/logging"
)

func main() {
	logging.Setup()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatal(err)
	}
	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal(err)
	}

	var gateway ledger.Gateway
	switch cfg.LedgerMode {
	case config.LedgerLive:
		gateway = ledger.NewRPCGateway(cfg.LedgerRPCURL, cfg.LedgerAuthToken)
	default:
		gateway = ledger.NewSimGateway()
	}
	slog.Info("ledger gateway ready", "mode", cfg.LedgerMode)

	users := mysql.NewUserRepository(gdb)
	invoices := mysql.NewInvoiceRepository(gdb)
	transactions := mysql.NewTransactionRepository(gdb)
	escrows := mysql.NewEscrowRepository(gdb)
	credits := mysql.NewCreditRepository(gdb)
	uow := mysql.NewGormUoW(gdb)

	tokens := authUC.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)
	auth := authUC.NewUsecase(users, credits, tokens, cfg.DIDMethod)
	invoicing := invoiceUC.NewUsecase(invoices, users, gateway, cfg.PlatformSeed)
	marketplace := marketplaceUC.NewUsecase(invoices, transactions)
	settlements := settlementUC.NewUsecase(uow, gateway, cfg.PlatformSeed)

	h := httpadp.NewHandler()
	authH := httpadp.NewAuthHandler(auth)
	invoiceH := httpadp.NewInvoiceHandler(invoicing, settlements)
	marketH := httpadp.NewMarketplaceHandler(marketplace, settlements)
	escrowH := httpadp.NewEscrowHandler(escrows)
	ledgerH := httpadp.NewLedgerHandler(gateway)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	e.GET("/health", h.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Write routes replay safely: the idempotency layer skips reads.
	api := e.Group("/api", appmw.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))
	session := appmw.RequireSession(tokens)

	api.POST("/auth/connect", authH.Connect)
	api.GET("/auth/profile/:user_id", authH.Profile, session)
	api.PATCH("/auth/kyc/:user_id", authH.SetKYC, session)
	api.GET("/auth/credit/:user_id", authH.CreditInfo, session)

	api.POST("/did/register", authH.RegisterDID, session)
	api.GET("/did/resolve/:did", authH.ResolveDID)
	api.POST("/did/verify", authH.VerifyDID)

	api.POST("/invoices", invoiceH.Create, session)
	api.GET("/invoices/:id", invoiceH.Get)
	api.GET("/invoices/seller/:seller_id", invoiceH.ListBySeller, session)
	api.GET("/invoices/stats/:seller_id", invoiceH.SellerStats, session)
	api.POST("/invoices/:id/confirm-payment", invoiceH.ConfirmPayment, session)
	api.POST("/invoices/:id/relist", invoiceH.Relist, session)
	api.POST("/invoices/:id/withdraw", invoiceH.Withdraw, session)

	api.GET("/marketplace/invoices", marketH.List)
	api.POST("/marketplace/purchase", marketH.Purchase, session)
	api.GET("/marketplace/stats", marketH.Stats)
	api.GET("/marketplace/portfolio/:investor_id", marketH.Portfolio, session)

	api.GET("/escrows/invoice/:invoice_id", escrowH.ListByInvoice, session)
	api.GET("/escrows/investor/:investor_id", escrowH.ListByInvestor, session)
	api.GET("/escrows/stats/:investor_id", escrowH.InvestorStats, session)

	api.GET("/ledger/balance/:address", ledgerH.Balance)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweeper := settlementUC.NewSweeper(settlements, redislock.New(rdb),
		cfg.SweepInterval, time.Duration(cfg.SweepGraceDays)*24*time.Hour)
	go sweeper.Run(ctx)

	go func() {
		addr := ":" + cfg.AppPort
		slog.Info("listening", "addr", addr)
		if err := e.Start(addr); err != nil {
			slog.Error("server stopped", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "err", err)
	}
}
