package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glycora-ai/platform/pkg/common/config"
	"github.com/glycora-ai/platform/pkg/common/kafka"
	"github.com/glycora-ai/platform/pkg/common/logger"
	"github.com/glycora-ai/platform/pkg/common/models"
	"github.com/glycora-ai/platform/pkg/observability/metrics"
	"github.com/glycora-ai/platform/pkg/report"
	"github.com/gorilla/mux"
)

type ReportWorker struct {
	generator *report.Generator
	consumer  *kafka.Consumer
}

func main() {
	logger.Init()
	cfg := config.Load()

	generator, err := report.NewGenerator(cfg.ReportOutputDir)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to prepare report directory")
	}

	worker := &ReportWorker{
		generator: generator,
		consumer:  kafka.NewConsumer("prediction-events", "report-worker"),
	}
	defer worker.consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := worker.consumer.Consume(ctx, worker.processEvent); err != nil && ctx.Err() == nil {
			logger.Log.WithError(err).Fatal("Consumer error")
		}
	}()

	router := mux.NewRouter()
	router.HandleFunc("/health", healthCheck).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.ServerHost, "8091"),
		Handler: router,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": "8091",
		}).Info("Report worker started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down report worker...")
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}

	logger.Log.Info("Report worker stopped")
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

func (w *ReportWorker) processEvent(ctx context.Context, event models.Event) error {
	if event.Type != "prediction.completed" {
		return nil
	}

	var payload struct {
		UserID  string                 `json:"user_id"`
		Patient models.PatientRecord   `json:"patient"`
		Result  models.InferenceResult `json:"result"`
	}
	raw, err := json.Marshal(event.Data)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		logger.Log.WithError(err).WithField("event_id", event.ID).Warn("Malformed prediction event, skipping")
		return nil
	}

	data := report.Data{
		Patient:     payload.Patient,
		Result:      payload.Result,
		GeneratedAt: event.Timestamp,
	}
	if data.Patient.UserID == "" {
		data.Patient.UserID = payload.UserID
	}

	pdfPath, err := w.generator.ExportPDF(data)
	if err != nil {
		return err
	}
	htmlPath, err := w.generator.ExportHTML(data)
	if err != nil {
		return err
	}
	metrics.IncReportGenerated()

	logger.Log.WithFields(map[string]interface{}{
		"event_id": event.ID,
		"pdf":      pdfPath,
		"html":     htmlPath,
	}).Info("Patient report generated")

	return nil
}
