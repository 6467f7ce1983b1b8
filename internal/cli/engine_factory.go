package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/aretw0/waymark"
	"github.com/aretw0/waymark/pkg/adapters/file"
	"github.com/aretw0/waymark/pkg/adapters/mock"
	redisAdapter "github.com/aretw0/waymark/pkg/adapters/redis"
	"github.com/aretw0/waymark/pkg/config"
	"github.com/aretw0/waymark/pkg/domain"
	"github.com/aretw0/waymark/pkg/session"
	"github.com/redis/go-redis/v9"
)

// DefaultSnapshotDir is where memory snapshots live when Redis is not configured.
var DefaultSnapshotDir = filepath.Join(".waymark", "snapshots")

// KeyPrefix namespaces every Redis key written by the CLI.
const KeyPrefix = "waymark:"

// Options configures CreateEngine.
type Options struct {
	// File is the YAML or JSON graph definition.
	File string

	// RedisAddr switches matches, snapshots and locks to Redis when set.
	RedisAddr string

	// SnapshotDir holds file snapshots when RedisAddr is empty.
	SnapshotDir string

	// Failures are transitions forced to fail, for rehearsing recovery.
	Failures []Failure

	// Seed fixes the probability draws of the simulated screen. Zero picks a random seed.
	Seed uint64

	Hooks []domain.LifecycleHooks
}

// Failure names a transition by its endpoints.
type Failure struct {
	From string
	To   string
}

func (f Failure) String() string {
	return f.From + "->" + f.To
}

// ParseFailure parses "FROM->TO".
func ParseFailure(s string) (Failure, error) {
	from, to, ok := strings.Cut(s, "->")
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if !ok || from == "" || to == "" {
		return Failure{}, fmt.Errorf("expected FROM->TO, got %q", s)
	}
	return Failure{From: from, To: to}, nil
}

// CreateEngine loads the definition and initializes an engine with CLI conventions:
// objects are found wherever they are searched for (subject to each state's
// probability), unknown actions always succeed
// and memory snapshots persist to disk or Redis. The returned func releases the backends.
func CreateEngine(opts Options, logger *slog.Logger) (*waymark.Engine, func() error, error) {
	def, err := config.Load(opts.File)
	if err != nil {
		return nil, nil, err
	}
	if err := applyFailures(def, opts.Failures); err != nil {
		return nil, nil, err
	}

	screen := mock.New().ShowAll()
	if opts.Seed != 0 {
		screen.Seed(opts.Seed)
	}
	engineOpts := []waymark.Option{
		waymark.WithLogger(logger),
		waymark.WithAction(screen),
		waymark.WithUnboundActions(),
	}
	for _, h := range opts.Hooks {
		engineOpts = append(engineOpts, waymark.WithLifecycleHooks(h))
	}

	closeFn := func() error { return nil }
	if opts.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: opts.RedisAddr})
		store := redisAdapter.NewFromClient(client, redisAdapter.WithPrefix(KeyPrefix))
		engineOpts = append(engineOpts,
			waymark.WithMatchStore(redisAdapter.NewMatchStore(client, KeyPrefix)),
			waymark.WithSessions(session.NewManager(store,
				session.WithLocker(redisAdapter.NewLocker(client, KeyPrefix)),
				session.WithLogger(logger),
			)),
		)
		closeFn = client.Close
	} else {
		dir := opts.SnapshotDir
		if dir == "" {
			dir = DefaultSnapshotDir
		}
		engineOpts = append(engineOpts,
			waymark.WithSessions(session.NewManager(file.New(dir), session.WithLogger(logger))),
		)
	}

	eng := waymark.New(engineOpts...)
	screen.WithStates(eng.Graph().StateByName)
	if err := eng.Load(def); err != nil {
		_ = closeFn()
		return nil, nil, fmt.Errorf("error loading %s: %w", opts.File, err)
	}
	if eng.Name == "" {
		eng.Name = strings.TrimSuffix(filepath.Base(opts.File), filepath.Ext(opts.File))
	}
	return eng, closeFn, nil
}

// applyFailures rebinds the named transitions to "never".
func applyFailures(def *config.Definition, failures []Failure) error {
	for _, f := range failures {
		found := false
		for i := range def.Transitions {
			t := &def.Transitions[i]
			if t.From == f.From && t.To == f.To {
				t.Action = "never"
				found = true
			}
		}
		if !found {
			return fmt.Errorf("no transition %s", f)
		}
	}
	return nil
}
