// Command micropass is a thin command-line front end for the MicroPass
// vault client.
//
// Usage:
//
//	micropass [flags] <command> [args]
//
// Commands:
//
//	register           create a new account
//	whoami             print the account profile
//	insert             read plaintext cipher data JSON from stdin, encrypt, upload
//	get <id> [-copy]   fetch and decrypt one cipher; -copy puts the password on the clipboard
//	list               print the updated/deleted id sets
//	delete <id>        delete a cipher
//	sync               reconcile the local cache once
//	watch              keep reconciling in the background until interrupted
//
// The account email comes from config (-email / APP_EMAIL); the master
// password is always prompted for and never stored.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/atotto/clipboard"
	"golang.org/x/term"

	"github.com/micropass/micropass-go/internal/adapter"
	"github.com/micropass/micropass-go/internal/config"
	"github.com/micropass/micropass-go/internal/crypto"
	"github.com/micropass/micropass-go/internal/logger"
	"github.com/micropass/micropass-go/internal/service"
	"github.com/micropass/micropass-go/internal/store"
	"github.com/micropass/micropass-go/internal/workers"
	"github.com/micropass/micropass-go/models"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "micropass: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.GetClientConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.NewLogger("cli")

	command := flag.Arg(0)
	if command == "" {
		return errors.New("no command given (try: register, whoami, insert, get, list, delete, sync, watch)")
	}

	provider := crypto.NewProvider()
	keyChain := crypto.NewKeyChain(provider)
	codec := crypto.NewEnvelopeCodec(provider)
	serverAdapter := adapter.NewHTTPServerAdapter(adapter.Config{
		BaseURL: cfg.Adapter.BaseURL,
		Timeout: cfg.Adapter.RequestTimeout,
	})

	identity := service.NewIdentityService(serverAdapter, keyChain, log)
	users := service.NewUserService(serverAdapter, keyChain, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cliApp{
		cfg:      cfg,
		log:      log,
		codec:    codec,
		adapter:  serverAdapter,
		identity: identity,
		users:    users,
	}
	return app.dispatch(ctx, command, flag.Args()[1:])
}

type cliApp struct {
	cfg      *config.StructuredConfig
	log      *logger.Logger
	codec    crypto.EnvelopeCodec
	adapter  adapter.ServerAdapter
	identity service.IdentityService
	users    service.UserService
}

func (a *cliApp) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return a.register(ctx)
	case "whoami":
		return a.whoami(ctx)
	case "insert":
		return a.insert(ctx)
	case "get":
		return a.get(ctx, args)
	case "list":
		return a.list(ctx)
	case "delete":
		return a.delete(ctx, args)
	case "sync":
		return a.sync(ctx, false)
	case "watch":
		return a.sync(ctx, true)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *cliApp) register(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}

	hint, err := readLine("Password hint (optional): ")
	if err != nil {
		return err
	}

	return a.identity.Register(ctx, email, password, hint)
}

func (a *cliApp) whoami(ctx context.Context) error {
	session, _, err := a.login(ctx)
	if err != nil {
		return err
	}

	user, err := a.users.Whoami(ctx, session)
	if err != nil {
		return err
	}

	return printJSON(user)
}

func (a *cliApp) insert(ctx context.Context) error {
	ciphers, err := a.unlockedCiphers(ctx)
	if err != nil {
		return err
	}

	var data models.CipherData
	if err = json.NewDecoder(os.Stdin).Decode(&data); err != nil {
		return fmt.Errorf("read cipher data from stdin: %w", err)
	}

	id, err := ciphers.Insert(ctx, data)
	if err != nil {
		return err
	}

	fmt.Println(id)
	return nil
}

func (a *cliApp) get(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	copyPassword := fs.Bool("copy", false, "copy the password field to the clipboard")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: get [-copy] <id>")
	}

	ciphers, err := a.unlockedCiphers(ctx)
	if err != nil {
		return err
	}

	cipher, err := ciphers.Get(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	if *copyPassword {
		typed := cipher.Data.GetTypedFields()
		if typed.Password == "" {
			return errors.New("cipher has no password field")
		}
		if err = clipboard.WriteAll(typed.Password); err != nil {
			return fmt.Errorf("copy password to clipboard: %w", err)
		}
		fmt.Fprintln(os.Stderr, "password copied to clipboard")
		// Never echo the password after copying it.
		delete(cipher.Data.Fields, models.FieldNamePass)
	}

	return printJSON(cipher)
}

func (a *cliApp) list(ctx context.Context) error {
	session, _, err := a.login(ctx)
	if err != nil {
		return err
	}

	ciphers := service.NewCipherService(a.adapter, a.codec, session, a.log)
	resp, err := ciphers.List(ctx, nil)
	if err != nil {
		return err
	}

	return printJSON(resp)
}

func (a *cliApp) delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: delete <id>")
	}

	session, _, err := a.login(ctx)
	if err != nil {
		return err
	}

	ciphers := service.NewCipherService(a.adapter, a.codec, session, a.log)
	return ciphers.Delete(ctx, args[0])
}

func (a *cliApp) sync(ctx context.Context, watch bool) error {
	session, _, err := a.login(ctx)
	if err != nil {
		return err
	}

	cache, err := store.NewSQLiteCache(a.cfg.Storage.DB.Path, a.log)
	if err != nil {
		return err
	}
	defer cache.Close()

	syncer := service.NewSyncService(a.adapter, cache, session, a.log)
	if err = syncer.Reconcile(ctx); err != nil {
		return err
	}
	if !watch {
		return nil
	}

	job := workers.NewSyncJob(syncer, a.log)
	job.Start(ctx, a.cfg.Workers.SyncInterval)
	defer job.Stop()

	<-ctx.Done()
	return nil
}

// unlockedCiphers logs in, unlocks the vault, and returns a cipher
// service bound to the unlocked session.
func (a *cliApp) unlockedCiphers(ctx context.Context) (service.CipherService, error) {
	session, password, err := a.login(ctx)
	if err != nil {
		return nil, err
	}

	session, err = a.users.Unlock(ctx, session, a.cfg.App.Email, password)
	if err != nil {
		return nil, err
	}

	return service.NewCipherService(a.adapter, a.codec, session, a.log), nil
}

func (a *cliApp) login(ctx context.Context) (service.Session, string, error) {
	email, password, err := a.credentials()
	if err != nil {
		return service.Session{}, "", err
	}

	session, err := a.identity.Login(ctx, email, password)
	if err != nil {
		return service.Session{}, "", err
	}
	return session, password, nil
}

func (a *cliApp) credentials() (email, password string, err error) {
	email = a.cfg.App.Email
	if email == "" {
		if email, err = readLine("Email: "); err != nil {
			return "", "", err
		}
	}

	fmt.Fprint(os.Stderr, "Master password: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", "", fmt.Errorf("read password: %w", err)
	}

	return email, string(raw), nil
}

func readLine(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
