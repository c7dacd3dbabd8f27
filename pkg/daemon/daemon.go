package daemon

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/battmon/battmon/pkg/alerting"
	"github.com/battmon/battmon/pkg/battery"
	"github.com/battmon/battmon/pkg/config"
	"github.com/battmon/battmon/pkg/events"
	"github.com/battmon/battmon/pkg/sink"
)

var (
	conf      *config.File
	sched     *alerting.Scheduler
	pollLoop  *PollLoop
	hub       *events.EventHub
	alertSink sink.Sink
)

func setupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(logrus.StandardLogger()))
	router.GET("/status", getStatus)
	router.GET("/current-charge", getCurrentCharge)
	router.GET("/charging", getCharging)
	router.GET("/config", getConfig)
	router.GET("/thresholds", getThresholds)
	router.GET("/events", getEvents)
	router.POST("/test-alert", postTestAlert)
	router.GET("/version", getVersion)

	return router
}

// Run starts the monitor daemon: poll loop, alert sinks and the HTTP API
// on a unix socket. It blocks until SIGINT/SIGTERM.
func Run(configPath string, unixSocketPath string) error {
	var err error
	conf, err = config.NewFile(configPath)
	if err != nil {
		logrus.Fatalf("failed to parse config during startup: %v", err)
	}
	logrus.WithFields(conf.LogrusFields()).Infof("config loaded")

	sched, err = alerting.New(conf.AlertingOptions())
	if err != nil {
		// Unreachable in practice: config.NewFile already validated.
		logrus.Fatalf("failed to construct scheduler: %v", err)
	}

	hub = events.NewEventHub()
	alertSink = buildSinks(conf, hub)

	pollLoop = NewPollLoop(PollLoopOptions{
		Source:         battery.NewSystemSource(),
		Scheduler:      sched,
		AlertSink:      alertSink,
		Hub:            hub,
		Interval:       conf.PollInterval(),
		FetchTimeout:   conf.FetchTimeout(),
		SleepThreshold: conf.SleepThreshold(),
	})

	router := setupRoutes()
	srv := &http.Server{
		Handler: router,
	}

	// A previous unclean shutdown may leave the socket file behind.
	if err := os.Remove(unixSocketPath); err != nil && !os.IsNotExist(err) {
		logrus.Fatalf("failed to remove stale socket %s: %v", unixSocketPath, err)
	}

	l, err := net.Listen("unix", unixSocketPath)
	if err != nil {
		logrus.Fatal(err)
	}

	go func() {
		logrus.Infof("http server listening on %s", l.Addr().String())
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatal(err)
		}
	}()

	pollLoop.Start()

	// Handle common process-killing signals, so we can gracefully shut down:
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigc
	logrus.Infof("caught signal \"%s\": shutting down.", sig)

	logrus.Info("stopping poll loop")
	pollLoop.Stop()

	logrus.Info("shutting down http server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("failed to shutdown http server: %v", err)
	}
	cancel()

	logrus.Info("exiting")
	return nil
}

// buildSinks assembles the delivery fan-out from the profile. The log
// sink is always present so decisions stay observable.
func buildSinks(c config.Config, hub *events.EventHub) sink.Sink {
	sinks := sink.Multi{sink.LogSink{}, sink.NewHubSink(hub)}
	if c.NotificationsEnabled() {
		sinks = append(sinks, sink.NewDBusSink())
	}
	if c.SoundEnabled() {
		sinks = append(sinks, sink.NewSoundSink(c.SoundCommand()))
	}
	return sinks
}

// ginLogger routes gin request logs through logrus at debug level.
func ginLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Debug("http request")
	}
}
