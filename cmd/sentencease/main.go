package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sentencease/client/internal/config"
	"github.com/sentencease/client/internal/connectivity"
	"github.com/sentencease/client/internal/db"
	"github.com/sentencease/client/internal/gateway"
	"github.com/sentencease/client/internal/jobs"
	"github.com/sentencease/client/internal/logger"
	"github.com/sentencease/client/internal/models"
	"github.com/sentencease/client/internal/repository/sqlite"
	"github.com/sentencease/client/internal/session"
	"github.com/sentencease/client/internal/worker"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("SentenCease client starting")
	log.Debug("api_base_url=%s", cfg.APIBaseURL)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("history_size=%d", cfg.HistorySize)
	log.Debug("cache_batch_size=%d", cfg.CacheBatchSize)
	log.Debug("reveal_grace_ms=%d", cfg.RevealGraceMs)
	log.Debug("probe_interval_seconds=%d", cfg.ProbeIntervalSeconds)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open local store: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing local store")
		database.Close()
	}()

	cards := sqlite.NewCardRepository(database.DB)
	queue := sqlite.NewReviewQueueRepository(database.DB)
	progress := sqlite.NewProgressRepository(database.DB)

	gw := gateway.New(cfg.APIBaseURL, gateway.StaticToken(cfg.APIToken), cards, queue, progress)

	monitor := connectivity.NewMonitor(gw)
	monitor.Subscribe(func(online bool) {
		if online {
			fmt.Println("\n连接已恢复 - 您的学习数据将会自动同步")
		} else {
			fmt.Println("\n离线模式 - 您仍然可以继续学习，稍后将自动同步")
		}
	})

	pool := worker.NewPool(cfg.JobWorkerCount, cfg.JobQueueSize)
	queueJobs := jobs.NewWorkerQueue(pool, gw)

	controller := session.New(gw, progress, session.Options{
		HistorySize: cfg.HistorySize,
		RevealGrace: time.Duration(cfg.RevealGraceMs) * time.Millisecond,
	})
	controller.SetListener(func(snap session.Snapshot) {
		render(snap)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool.Start(ctx)
	go monitor.RunProber(ctx, gw, time.Duration(cfg.ProbeIntervalSeconds)*time.Second)

	// Pre-provision the offline cache in the background.
	if err := queueJobs.EnqueuePrefetch(cfg.CacheBatchSize); err != nil {
		log.Debug("prefetch not enqueued: %v", err)
	}

	controller.Start(ctx)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	input := make(chan string)
	go readInput(input)

	fmt.Println("SentenCease — 在语境中学单词")
	fmt.Println("命令: [回车]显示释义  1=不认识  2=模糊  3=认识  b=上一个  s=同步  q=退出")

loop:
	for {
		select {
		case sig := <-stop:
			log.Info("received signal %v, shutting down", sig)
			break loop
		case line, ok := <-input:
			if !ok {
				break loop
			}
			if !handleCommand(ctx, controller, queueJobs, line) {
				break loop
			}
		}
	}

	cancel()
	pool.Stop()
	log.Info("SentenCease client stopped")
}

func readInput(out chan<- string) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		out <- strings.TrimSpace(scanner.Text())
	}
	close(out)
}

// handleCommand applies one line of user input. Returns false to quit.
func handleCommand(ctx context.Context, controller *session.Controller, queueJobs jobs.JobQueue, line string) bool {
	switch line {
	case "q", "quit", "exit":
		return false
	case "":
		if err := controller.Reveal(); err != nil {
			retryIfErrored(ctx, controller)
		}
	case "1":
		submit(ctx, controller, models.ChoiceUnknown)
	case "2":
		submit(ctx, controller, models.ChoiceFuzzy)
	case "3":
		submit(ctx, controller, models.ChoiceKnown)
	case "b", "back":
		if !controller.Back() {
			fmt.Println("没有上一个单词")
		}
	case "s", "sync":
		if err := queueJobs.EnqueueReplay(); err != nil {
			fmt.Println("同步任务未能排队，请稍后再试")
		}
	default:
		fmt.Println("未知命令:", line)
	}
	return true
}

func submit(ctx context.Context, controller *session.Controller, choice string) {
	switch err := controller.Submit(ctx, choice); err {
	case nil:
	case session.ErrNotInteractable:
		fmt.Println("请先查看释义")
	case session.ErrBusy:
		fmt.Println("正在处理，请稍候")
	default:
		// Hard failure: the controller is already in the errored state
		// and renders the retry affordance.
	}
}

func retryIfErrored(ctx context.Context, controller *session.Controller) {
	if controller.Snapshot().State == session.StateErrored {
		_ = controller.Retry(ctx)
	}
}

func render(snap session.Snapshot) {
	switch snap.State {
	case session.StateLoading:
		fmt.Println("\n加载中...")
	case session.StatePresentingHidden:
		fmt.Printf("\n[%d/%d]", snap.Progress.Completed, snap.Progress.Total)
		if snap.Offline {
			fmt.Print(" (离线)")
		}
		fmt.Printf("\n%s\n", highlight(snap.Card.ExampleSentence, snap.Card.WordInSentence))
		fmt.Println("按回车查看释义")
	case session.StatePresentingRevealed:
		if snap.Card == nil {
			return
		}
		fmt.Printf("\n%s — %s\n", snap.Card.Lemma, snap.Card.WordInSentence)
		for _, meaning := range snap.Card.AllMeanings {
			fmt.Printf("  %s %s\n", meaning.PartOfSpeech, meaning.Definition)
		}
		if snap.Card.ExampleSentenceTranslation != "" {
			fmt.Printf("  %s\n", snap.Card.ExampleSentenceTranslation)
		}
		fmt.Println("1=不认识  2=模糊  3=认识")
	case session.StateSubmitting:
		fmt.Println("提交中...")
	case session.StateComplete:
		fmt.Printf("\n%s\n", snap.Message)
	case session.StateErrored:
		fmt.Printf("\n出错了: %s\n按回车重试\n", snap.ErrMessage)
	}
}

// highlight marks the reviewed word inside its sentence.
func highlight(sentence, word string) string {
	if word == "" {
		return sentence
	}
	return strings.ReplaceAll(sentence, word, "["+word+"]")
}
