package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sardorqobilov/fieldsale-client/internal/backend"
	"github.com/sardorqobilov/fieldsale-client/internal/cart"
	"github.com/sardorqobilov/fieldsale-client/internal/drafts"
	"github.com/sardorqobilov/fieldsale-client/internal/finalize"
	"github.com/sardorqobilov/fieldsale-client/internal/session"
	"github.com/sardorqobilov/fieldsale-client/pkg/auth"
	"github.com/sardorqobilov/fieldsale-client/pkg/config"
	"github.com/sardorqobilov/fieldsale-client/pkg/enums"
	pkgerrors "github.com/sardorqobilov/fieldsale-client/pkg/errors"
	"github.com/sardorqobilov/fieldsale-client/pkg/logger"
	"github.com/sardorqobilov/fieldsale-client/pkg/metrics"
	"github.com/sardorqobilov/fieldsale-client/pkg/notify"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "fieldsale"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "fieldsale",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	identity := auth.TokenIdentity(cfg.Auth.Token)
	backendMetrics := metrics.NewBackendMetrics(prometheus.DefaultRegisterer)
	notifier := notify.LogSink{Log: logg}

	client, err := backend.NewClient(cfg.Backend, backend.StaticToken(cfg.Auth.Token), logg,
		backend.WithMetrics(backendMetrics),
		backend.WithSessionTeardown(func(ctx context.Context) {
			logg.Warn(ctx, "credential rejected, sign in again")
		}),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to build backend client", err)
		os.Exit(1)
	}

	draftService, err := drafts.NewService(client, client, identity, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build draft service", err)
		os.Exit(1)
	}

	finalizeService, err := finalize.NewService(client, identity, draftService, logg, finalize.Options{
		DefaultInstallmentMonths: cfg.Sale.DefaultInstallmentMonths,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to build finalization service", err)
		os.Exit(1)
	}

	ctx := context.Background()
	switch os.Args[1] {
	case "whoami":
		err = runWhoami(identity)
	case "drafts":
		err = runDrafts(ctx, draftService, finalizeService, notifier, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		logg.Error(ctx, "command failed", err)
		if typed := pkgerrors.As(err); typed != nil {
			fmt.Fprintln(os.Stderr, pkgerrors.MetadataFor(typed.Code()).PublicMessage)
		}
		os.Exit(1)
	}
}

func runWhoami(identity auth.TokenIdentity) error {
	claims, err := identity.Claims()
	if err != nil {
		return err
	}
	fmt.Printf("id:    %s\n", claims.ID)
	if claims.FullName != "" {
		fmt.Printf("name:  %s\n", claims.FullName)
	}
	if claims.Phone != "" {
		fmt.Printf("phone: %s\n", claims.Phone)
	}
	return nil
}

func runDrafts(ctx context.Context, svc *drafts.Service, fin *finalize.Service, notifier notify.Notifier, args []string) error {
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}
	switch args[0] {
	case "list":
		var filter enums.DraftStatus
		if len(args) > 1 {
			parsed, err := enums.ParseDraftStatus(args[1])
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
			}
			filter = parsed
		}
		list, err := svc.List(ctx)
		if err != nil {
			return err
		}
		shown := 0
		for _, d := range list {
			if filter != "" && d.Status != filter {
				continue
			}
			fmt.Printf("#%d  %s  %s  %d products  total %s\n",
				d.SequenceNumber, d.ID, d.Status, len(d.Products), d.TotalSum)
			shown++
		}
		if shown == 0 {
			fmt.Println("no drafts")
		}
		return nil
	case "confirm":
		if len(args) < 2 {
			usage()
			os.Exit(2)
		}
		method := enums.PaymentMethodCash
		if len(args) > 2 {
			parsed, err := enums.ParsePaymentMethod(args[2])
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method")
			}
			method = parsed
		}
		list, err := svc.List(ctx)
		if err != nil {
			return err
		}
		var draft *backend.DraftOrder
		for i := range list {
			if list[i].ID == args[1] {
				draft = &list[i]
				break
			}
		}
		if draft == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("draft %s not found", args[1]))
		}
		notifier.Notify(ctx, notify.Info(fmt.Sprintf("confirming draft #%d", draft.SequenceNumber)))

		sess := session.New()
		sess.SetPaymentMethod(method)
		message, err := fin.ConfirmDraft(ctx, *draft, cart.New(), sess)
		if err != nil {
			notifier.Notify(ctx, notify.FromError(err))
			return err
		}
		notifier.Notify(ctx, notify.Success(message))
		fmt.Println(message)
		return nil
	case "delete":
		if len(args) < 2 {
			usage()
			os.Exit(2)
		}
		if err := svc.Delete(ctx, args[1], cart.New(), session.New()); err != nil {
			return err
		}
		fmt.Println("deleted")
		return nil
	default:
		usage()
		os.Exit(2)
		return nil
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: fieldsale <command>

commands:
  whoami                        show the agent identity from the configured token
  drafts list [status]          list the agent's draft orders, optionally by status
  drafts confirm <id> [method]  confirm a draft as a completed sale (default cash)
  drafts delete <id>            delete a draft order`)
}
