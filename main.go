package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"voicedesk/config"
	"voicedesk/session"
	"voicedesk/storage"
	"voicedesk/voice"
	"voicedesk/web"
)

func newInterruptContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-c:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

func main() {
	ctx, cancel := newInterruptContext(context.Background())
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logrus.WithError(err).Fatalln("voicedesk stopped")
	}
}

func run(ctx context.Context, cfg config.Config) error {
	// engines that fail to load stay nil, their panels report it
	tts, err := voice.LoadSynthesizer(ctx, cfg.TTS)
	if err != nil {
		logrus.WithError(err).WithField("engine", cfg.TTS.Engine).Errorln("failed to load tts engine")
		tts = nil
	}
	stt, err := voice.LoadRecognizer(ctx, cfg.STT)
	if err != nil {
		logrus.WithError(err).WithField("engine", cfg.STT.Engine).Errorln("failed to load stt engine")
		stt = nil
	}

	assets := storage.NewRegistry(cfg.AssetTTL)
	opts := session.Options{
		Synthesizer: tts,
		Recognizer:  stt,
		TempDir:     cfg.TempDir,
		CloneDir:    cfg.CloneDir,
		Assets:      assets,
	}
	if cfg.S3.Enabled() {
		s3, err := storage.NewS3(cfg.S3)
		if err != nil {
			logrus.WithError(err).Warnln("s3 mirror disabled")
		} else {
			opts.Mirror = s3
		}
	}

	sess, err := session.New(opts)
	if err != nil {
		return err
	}

	server := web.New(sess, assets, web.Options{
		MaxUpload: cfg.MaxUpload,
		RateLimit: cfg.RateLimit,
		RateBurst: cfg.RateBurst,
	})

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return server.ListenAndServe(ctx, cfg.Addr())
	})
	group.Go(func() error {
		assets.Run(ctx)
		return nil
	})

	return group.Wait()
}
