package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"practice-interview/internal/api"
	"practice-interview/internal/config"
	"practice-interview/internal/httpapi"
	"practice-interview/internal/interview"
	"practice-interview/internal/interviewer"
	"practice-interview/internal/metrics"
	"practice-interview/internal/session"
	"practice-interview/internal/speech"
	"practice-interview/internal/storage"
)

func main() {
	fmt.Println("🚀 Запуск Practice Interview...")

	// Загружаем переменные окружения
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env файл не найден, используются переменные окружения")
	}

	appCfg := config.LoadAppConfig()
	if err := appCfg.AI.ValidateConfig(); err != nil {
		log.Fatalf("Ошибка конфигурации AI: %v", err)
	}

	// Загружаем конфигурацию практики
	practiceCfg, err := config.Load(appCfg.PracticeConfig)
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации практики: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("🔧 Инициализация сервисов...")
	m := metrics.NewMetrics()

	generator, err := newGenerator(ctx, appCfg.AI)
	if err != nil {
		log.Fatalf("Ошибка инициализации AI: %v", err)
	}
	questioner := interviewer.New(generator, m)
	fmt.Println("✅ Интервьюер инициализирован")

	store, err := newStore(ctx, appCfg.Storage)
	if err != nil {
		log.Fatalf("Ошибка инициализации хранилища: %v", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Printf("Ошибка закрытия хранилища: %v", err)
		}
	}()
	fmt.Printf("✅ Хранилище: %s\n", appCfg.Storage.Driver)

	fmt.Println("\n📋 Конфигурация:")
	fmt.Printf("• Вопросов в сессии: %d\n", practiceCfg.GetQuestionCount())
	fmt.Printf("• Таймаут тишины: %v\n", practiceCfg.SilenceTimeout())
	fmt.Printf("• Модель: %v\n", appCfg.AI.GetModelInfo()["model"])

	if len(os.Args) > 1 && os.Args[1] == "console" {
		roundName := string(interview.RoundTechnical)
		if len(os.Args) > 2 {
			roundName = os.Args[2]
		}
		if err := runConsole(ctx, roundName, questioner, store, m, practiceCfg); err != nil {
			log.Fatalf("Ошибка сессии: %v", err)
		}
		return
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Questioner:  questioner,
		Store:       store,
		Metrics:     m,
		Practice:    practiceCfg,
		JWTSecret:   appCfg.Auth.JWTSecret,
		CORSOrigins: appCfg.Server.CORSOrigins,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", appCfg.Server.Port),
		Handler:      router,
		ReadTimeout:  appCfg.Server.ReadTimeout,
		WriteTimeout: appCfg.Server.WriteTimeout,
	}

	go func() {
		fmt.Printf("\n🌐 Сервер слушает порт %d\n", appCfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Ошибка запуска сервера: %v", err)
		}
	}()

	<-ctx.Done()
	fmt.Println("\n🛑 Остановка сервера...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), appCfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Ошибка остановки сервера: %v", err)
	}

	snap := m.GetSnapshot()
	fmt.Printf("📊 Сессий: начато %d, завершено %d, прервано %d\n",
		snap.SessionsStarted, snap.SessionsCompleted, snap.SessionsAborted)
}

func newGenerator(ctx context.Context, cfg config.AIConfig) (api.Generator, error) {
	if cfg.Backend == config.BackendSDK {
		client, err := api.NewGenAIClient(ctx, cfg.APIKey, cfg.Model, cfg.Temperature, cfg.MaxTokens)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
	return api.NewGeminiClient(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Temperature, cfg.MaxTokens), nil
}

func newStore(ctx context.Context, cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Driver {
	case config.StorageMongo:
		s, err := storage.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.Collection)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StorageFirestore:
		s, err := storage.NewFirestoreStore(ctx, cfg.FirestoreProjectID, cfg.FirestoreCredentialsFile, cfg.Collection)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StorageFile, "":
		return storage.NewFileStore(cfg.ResultsDir), nil
	}
	return nil, fmt.Errorf("неизвестный STORAGE_DRIVER %q", cfg.Driver)
}

// runConsole одна сессия в терминале: вопросы печатаются, ответы читаются из stdin
func runConsole(ctx context.Context, roundName string, q session.Questioner, store storage.Store, m *metrics.Metrics, cfg *config.Config) error {
	round, err := interview.ParseRound(roundName)
	if err != nil {
		return err
	}

	engine := speech.NewConsoleEngine(os.Stdin, os.Stdout)
	// в терминале ответ набирается дольше, чем произносится
	adapter := speech.NewService(engine, engine,
		speech.WithLanguage(cfg.Speech.Language),
		speech.WithRate(cfg.Speech.Rate),
		speech.WithGraceExtra(2*time.Minute),
	)

	controller := session.NewController(q, adapter, store, m, session.Options{
		QuestionCount:  cfg.GetQuestionCount(),
		SilenceTimeout: time.Minute,
		MutedAskDelay:  cfg.MutedAskDelay(),
		FeedbackDelay:  cfg.FeedbackDelay(),
	})
	defer controller.Stop()

	fmt.Printf("\n🎯 %s\n", round.Title())
	summary, err := controller.Start(ctx, round, "console", os.Getenv("USER"))
	if err != nil {
		return err
	}

	fmt.Printf("\n🏁 Итог: %d/%d (%d%%)\n", summary.TotalScore, summary.MaxScore, summary.Percentage)
	fmt.Println(summary.OverallFeedback)
	for _, tip := range summary.Tips {
		fmt.Printf("• %s\n", tip)
	}
	return nil
}
