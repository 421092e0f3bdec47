package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cyclopcam/logs"
	"github.com/fitvision/formcheck/pkg/form"
	"github.com/fitvision/formcheck/pkg/pose"
	"github.com/fitvision/formcheck/server/storage"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"gorm.io/gorm"
)

const defaultMaxUploadMB = 50

type Server struct {
	Log logs.Log
	DB  *gorm.DB

	signalIn       chan os.Signal
	httpServer     *http.Server
	httpRouter     *httprouter.Router
	wsUpgrader     websocket.Upgrader
	analyzer       *form.Analyzer
	estimator      pose.Estimator
	storage        storage.Storage
	progress       *ProgressHub
	maxUploadBytes int64
}

func NewServer(configFile string) (*Server, error) {
	cfg := Config{}
	if cfgB, err := os.ReadFile(configFile); err != nil {
		return nil, err
	} else {
		if err := json.Unmarshal(cfgB, &cfg); err != nil {
			return nil, fmt.Errorf("Error parsing config file %v: %w", configFile, err)
		}
	}
	logger, err := logs.NewLog()
	if err != nil {
		return nil, err
	}
	db, err := openDB(logger, cfg.DB)
	if err != nil {
		return nil, err
	}

	// Open blob store
	var storageServer storage.Storage
	if cfg.VideoStorage.GCS != nil {
		storageServer, err = storage.NewStorageGCS(logger, cfg.VideoStorage.GCS.Bucket)
		if err != nil {
			return nil, err
		}
	} else if cfg.VideoStorage.Filesystem != nil {
		storageServer, err = storage.NewStorageFS(logger, cfg.VideoStorage.Filesystem.Root)
		if err != nil {
			return nil, err
		}
	} else {
		return nil, fmt.Errorf("One of the storage options must be configured (i.e. either 'filesystem' or 'gcs')")
	}

	if cfg.PoseSidecar == "" {
		return nil, fmt.Errorf("'poseSidecar' must be configured (URL of the pose estimation service)")
	}
	estimator, err := pose.NewHTTPEstimator(cfg.PoseSidecar)
	if err != nil {
		return nil, err
	}
	logger.Infof("Pose model '%v' ready", estimator.Config().Name)

	maxUploadMB := cfg.MaxUploadMB
	if maxUploadMB == 0 {
		maxUploadMB = defaultMaxUploadMB
	}

	s := &Server{
		Log:            logger,
		DB:             db,
		analyzer:       form.NewAnalyzer(),
		estimator:      estimator,
		storage:        storageServer,
		progress:       NewProgressHub(logger),
		maxUploadBytes: maxUploadMB * 1024 * 1024,
	}
	s.setupHttpRoutes()
	return s, nil
}

// port example: ":8081"
func (s *Server) ListenHTTP(port string) error {
	s.Log.Infof("Listening on %v", port)
	s.httpServer = &http.Server{
		Addr:    port,
		Handler: s.httpRouter,
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) ListenForKillSignals() {
	s.Log.Infof("ListenForKillSignals starting")
	s.signalIn = make(chan os.Signal, 1)
	signal.Notify(s.signalIn, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig, ok := <-s.signalIn
		if ok {
			s.Log.Infof("Received OS signal '%v'. ListenForKillSignals will exit after shutdown", sig.String())
			s.Shutdown()
		} else {
			// This path gets hit when Shutdown() is called by something other than ourselves, and Shutdown() closes the signalIn channel.
			s.Log.Infof("signalIn closed. ListenForKillSignals will exit now")
		}
	}()
}

func (s *Server) Shutdown() {
	s.Log.Infof("Shutdown")
	signal.Stop(s.signalIn)
	close(s.signalIn)
	s.estimator.Close()
	s.Log.Infof("Closing HTTP server")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	err := s.httpServer.Shutdown(ctx)
	defer cancel()
	if err != nil {
		s.Log.Warnf("Shutdown complete, with error: %v", err)
	} else {
		s.Log.Infof("Shutdown complete")
	}
	s.Log.Close()
}
