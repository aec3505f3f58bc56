package serving

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/glycora-ai/platform/pkg/common/kafka"
	"github.com/glycora-ai/platform/pkg/common/logger"
	"github.com/glycora-ai/platform/pkg/common/models"
	"github.com/glycora-ai/platform/pkg/gateway/auth"
	"github.com/glycora-ai/platform/pkg/identity"
	"github.com/glycora-ai/platform/pkg/inference"
	"github.com/glycora-ai/platform/pkg/observability/metrics"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Handler exposes the prediction pipeline and its collaborators over HTTP.
type Handler struct {
	inference *inference.Service
	repo      *Repository
	cache     *ResultCache
	users     *identity.Service
	jwt       *auth.JWTManager
	producer  *kafka.Producer
}

func NewHandler(svc *inference.Service, repo *Repository, cache *ResultCache, users *identity.Service, jwt *auth.JWTManager, producer *kafka.Producer) *Handler {
	return &Handler{
		inference: svc,
		repo:      repo,
		cache:     cache,
		users:     users,
		jwt:       jwt,
		producer:  producer,
	}
}

// Register wires the public routes and the routes behind authentication.
func (h *Handler) Register(public *mux.Router, protected *mux.Router) {
	public.HandleFunc("/auth/register", h.handleRegister).Methods(http.MethodPost)
	public.HandleFunc("/auth/login", h.handleLogin).Methods(http.MethodPost)
	public.HandleFunc("/predict", h.handlePredict).Methods(http.MethodPost)
	public.HandleFunc("/history/{user_id}", h.handleHistory).Methods(http.MethodGet)
	public.HandleFunc("/reports/monthly/{user_id}", h.handleMonthlyReport).Methods(http.MethodGet)

	protected.HandleFunc("/profile/{user_id}", h.handleGetProfile).Methods(http.MethodGet)
	protected.HandleFunc("/profile/{user_id}", h.handleUpdateProfile).Methods(http.MethodPut)
}

func (h *Handler) handlePredict(w http.ResponseWriter, r *http.Request) {
	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if degradedFields(payload) > 0 {
		metrics.IncPredictionDegraded()
	}

	patient, result, err := h.inference.InferPayload(payload)
	if err != nil {
		metrics.IncPredictionFailed()
		logger.Log.WithError(err).Error("Prediction failed")
		http.Error(w, "prediction failed", http.StatusInternalServerError)
		return
	}
	metrics.IncPredictionServed()

	logger.Log.WithFields(map[string]interface{}{
		"prediction": result.PredictionLabel,
		"risk_level": result.RiskLevel,
		"user_id":    patient.UserID,
	}).Info("Prediction completed")

	if patient.UserID != "" {
		h.recordPrediction(r, patient, result, payload)
	}

	writeJSON(w, http.StatusOK, models.PredictionResponse{
		Prediction:  result.PredictionLabel,
		RiskLevel:   string(result.RiskLevel),
		Probability: result.ProbabilityPercent,
		Score:       inference.Round3(result.RawScore),
	})
}

// recordPrediction persists, caches and publishes one result. All three are
// best-effort: a storage or broker failure must not fail a served prediction.
func (h *Handler) recordPrediction(r *http.Request, patient models.PatientRecord, result models.InferenceResult, payload map[string]interface{}) {
	ctx := r.Context()

	if err := h.repo.Append(ctx, patient.UserID, patient, result, payload); err != nil {
		logger.Log.WithError(err).WithField("user_id", patient.UserID).Error("Failed to save prediction")
		return
	}

	entry := models.HistoryEntry{
		UserID:        patient.UserID,
		Pregnancies:   patient.Pregnancies,
		Glucose:       patient.Glucose,
		BMI:           patient.BMI,
		BloodPressure: patient.BloodPressure,
		SkinThickness: patient.SkinThickness,
		Insulin:       patient.Insulin,
		DPF:           patient.DiabetesPedigreeFunction,
		Age:           patient.Age,
		Prediction:    result.PredictionLabel,
		Probability:   result.ProbabilityPercent,
		RiskLevel:     string(result.RiskLevel),
	}
	if h.cache != nil {
		if err := h.cache.StoreLatest(ctx, patient.UserID, entry); err != nil {
			logger.Log.WithError(err).Warn("Failed to cache latest prediction")
		}
	}

	if h.producer != nil {
		err := h.producer.PublishEvent(ctx, "prediction.completed", "api-server", map[string]interface{}{
			"user_id": patient.UserID,
			"patient": patient,
			"result":  result,
		})
		if err != nil {
			logger.Log.WithError(err).Warn("Failed to publish prediction event")
		}
	}
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]
	metrics.IncHistoryQuery()

	entries, err := h.repo.History(r.Context(), userID)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to load history")
		http.Error(w, "failed to load history", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"history": entries})
}

func (h *Handler) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]
	month, errMonth := strconv.Atoi(r.URL.Query().Get("month"))
	year, errYear := strconv.Atoi(r.URL.Query().Get("year"))
	if errMonth != nil || errYear != nil || month < 1 || month > 12 {
		http.Error(w, "month and year are required", http.StatusBadRequest)
		return
	}
	metrics.IncHistoryQuery()

	report, err := h.repo.Monthly(r.Context(), userID, month, year)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to build monthly report")
		http.Error(w, "failed to build monthly report", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	user, err := h.users.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, identity.ErrUsernameTaken) {
			http.Error(w, "user already exists", http.StatusConflict)
			return
		}
		logger.Log.WithError(err).Error("Failed to register user")
		http.Error(w, "failed to register", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"status":   "success",
		"user_id":  user.ID,
		"username": user.Username,
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		logger.Log.WithError(err).Error("Login failed")
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	token, err := h.jwt.IssueToken(user)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to issue token")
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "success",
		"user_id":  user.ID,
		"username": user.Username,
		"email":    user.Email,
		"token":    token,
	})
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["user_id"])
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	user, err := h.users.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("Failed to load profile")
		http.Error(w, "failed to load profile", http.StatusInternalServerError)
		return
	}

	stats, err := h.repo.Stats(r.Context(), id.String())
	if err != nil {
		logger.Log.WithError(err).Error("Failed to load profile stats")
		http.Error(w, "failed to load profile", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"profile": user,
		"stats":   stats,
	}
	if h.cache != nil {
		if latest, ok, err := h.cache.Latest(r.Context(), id.String()); err == nil && ok {
			response["latest_prediction"] = latest
		}
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["user_id"])
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("Failed to update profile")
		http.Error(w, "failed to update profile", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"profile": user,
	})
}

// degradedFields counts inbound feature fields that will coerce to 0.0.
func degradedFields(payload map[string]interface{}) int {
	count := 0
	for _, name := range models.FeatureNames {
		if !inference.IsCoercible(payload[name]) {
			count++
		}
	}
	return count
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
