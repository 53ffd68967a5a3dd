package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/contact-scout/internal/browse"
	"github.com/sells-group/contact-scout/internal/llm"
	"github.com/sells-group/contact-scout/internal/pipeline"
	"github.com/sells-group/contact-scout/internal/search"
	"github.com/sells-group/contact-scout/internal/store"
	"github.com/sells-group/contact-scout/internal/task"
	"github.com/sells-group/contact-scout/internal/webhook"
)

// scoutEnv holds the initialized store, pipeline and task manager shared
// by the serve and run commands.
type scoutEnv struct {
	Store    store.Store
	Executor *pipeline.Executor
	Manager  *task.Manager
}

// Close drains in-flight tasks and releases resources.
func (e *scoutEnv) Close() {
	if e.Manager != nil {
		e.Manager.Close()
	}
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "tasks.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func initSearch() (search.Client, error) {
	switch cfg.Search.Provider {
	case "duckduckgo", "":
		return search.NewDuckDuckGo(), nil
	case "jina":
		if cfg.Jina.Key == "" {
			return nil, eris.New("jina search requires an API key (CONTACTSCOUT_JINA_KEY)")
		}
		return search.NewJina(cfg.Jina.Key, search.WithJinaBaseURL(cfg.Jina.SearchBaseURL)), nil
	default:
		return nil, eris.Errorf("unsupported search provider: %s", cfg.Search.Provider)
	}
}

// initEnv sets up the store, search, browser and LLM clients and builds
// the task manager. Callers should defer env.Close().
func initEnv(ctx context.Context) (*scoutEnv, error) {
	if cfg.Anthropic.Key == "" {
		return nil, eris.New("anthropic API key is required (CONTACTSCOUT_ANTHROPIC_KEY)")
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	searcher, err := initSearch()
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	claude := llm.NewClaude(cfg.Anthropic.Key, llm.WithModel(cfg.Anthropic.Model))
	browser := browse.NewHTTPBrowser()

	callTimeout := time.Duration(cfg.Pipeline.CallTimeoutSecs) * time.Second
	executor := pipeline.NewExecutor(searcher, browser, claude, callTimeout)

	gate := pipeline.NewGate(cfg.Pipeline.MaxConcurrent)
	notifier := webhook.NewNotifier(cfg.Webhook.URL)
	manager := task.NewManager(st, executor, gate, notifier)

	return &scoutEnv{
		Store:    st,
		Executor: executor,
		Manager:  manager,
	}, nil
}
