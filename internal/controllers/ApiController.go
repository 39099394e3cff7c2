package controllers

import (
	"errors"
	"fmt"
	json "github.com/goccy/go-json"
	"io"
	"net/http"
	"streakd/internal/calendar"
	"streakd/internal/models"
	"streakd/internal/platforms"
	"streakd/internal/providers"
	"streakd/internal/services"
	"time"
)

const maxRequestBodySize = 1 << 20 // 1 MB

var errMissingID = errors.New("missing id parameter")

type ApiController struct {
	logger  providers.Logger
	service services.ActivityServiceInterface
	refresh services.RefreshServiceInterface
	cache   providers.CacheProviderInterface
}

type errorResponse struct {
	Error string `json:"error"`
}

type badRequestError struct {
	err error
}

func (e *badRequestError) Error() string { return e.err.Error() }
func (e *badRequestError) Unwrap() error { return e.err }

func NewApiController(logger providers.Logger, service services.ActivityServiceInterface, refresh services.RefreshServiceInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
		refresh: refresh,
		cache:   cache,
	}
}

// referenceTime reads the optional date parameter, falling back to the
// service clock.
func (ac *ApiController) referenceTime(r *http.Request) (time.Time, error) {
	s := r.URL.Query().Get("date")
	if s == "" {
		return ac.service.Now(), nil
	}
	d, err := calendar.ParseDate(s)
	if err != nil {
		return time.Time{}, &badRequestError{fmt.Errorf("invalid date %q", s)}
	}
	return d.Time(), nil
}

func subjectID(r *http.Request) (string, error) {
	id := r.URL.Query().Get("id")
	if id == "" {
		return "", &badRequestError{errMissingID}
	}
	return id, nil
}

func platformParam(r *http.Request, required bool) (models.Platform, error) {
	s := r.URL.Query().Get("platform")
	if s == "" && !required {
		return "", nil
	}
	p, err := models.ParsePlatform(s)
	if err != nil {
		return "", &badRequestError{err}
	}
	return p, nil
}

func errorStatus(err error) int {
	var badRequest *badRequestError
	var shapeErr *calendar.InputShapeError
	var integrityErr *calendar.DataIntegrityError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &badRequest), errors.As(err, &shapeErr), errors.As(err, &integrityErr),
		errors.Is(err, services.ErrUnknownPlatform):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, services.ErrSubjectNotFound), errors.Is(err, platforms.ErrUserNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (ac *ApiController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		ac.logger.Errorf(providers.GetLogTypeByRequestType(r.Method), "%s %s: %s", r.Method, r.URL.RequestURI(), err)
		msg = "Internal Server Error"
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, r *http.Request, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		ac.writeError(w, r, err)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (ac *ApiController) GetSubjects(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, r, "subjects", func() (any, error) {
		return ac.service.GetSubjects(), nil
	})
}

func (ac *ApiController) PutSubject(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload models.Subject
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		ac.writeError(w, r, &badRequestError{fmt.Errorf("invalid subject payload: %w", err)})
		return
	}

	created, err := ac.service.PutSubject(payload)
	if err != nil {
		ac.writeError(w, r, &badRequestError{err})
		return
	}
	ac.cache.Purge()

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, payload)
}

// ReceiveCalendar ingests a raw calendar in any accepted shape for one
// subject and platform.
func (ac *ApiController) ReceiveCalendar(w http.ResponseWriter, r *http.Request) {
	id, err := subjectID(r)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	p, err := platformParam(r, true)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	raw, err := calendar.ParseRaw(body)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	if err := ac.service.PutCalendar(id, p, raw); err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.cache.Purge()
	w.WriteHeader(http.StatusCreated)
}

func (ac *ApiController) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := subjectID(r)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	ref, err := ac.referenceTime(r)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.serveFromCacheOrCompute(w, r, "profile:"+id+":"+calendar.DateOf(ref).String(), func() (any, error) {
		return ac.service.GetProfile(id, ref)
	})
}

func (ac *ApiController) GetCalendar(w http.ResponseWriter, r *http.Request) {
	id, err := subjectID(r)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	p, err := platformParam(r, false)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	ref, err := ac.referenceTime(r)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	key := "calendar:" + id + ":" + string(p) + ":" + calendar.DateOf(ref).String()
	ac.serveFromCacheOrCompute(w, r, key, func() (any, error) {
		return ac.service.GetCalendar(id, p, ref)
	})
}

func (ac *ApiController) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	by, err := models.ParseLeaderboardSort(r.URL.Query().Get("sort"))
	if err != nil {
		ac.writeError(w, r, &badRequestError{err})
		return
	}
	ref, err := ac.referenceTime(r)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	key := "leaderboard:" + string(by) + ":" + calendar.DateOf(ref).String()
	ac.serveFromCacheOrCompute(w, r, key, func() (any, error) {
		return ac.service.GetLeaderboard(r.Context(), by, ref)
	})
}

// RefreshSubject fetches the subject's platform calendars right away.
func (ac *ApiController) RefreshSubject(w http.ResponseWriter, r *http.Request) {
	id, err := subjectID(r)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	err = ac.refresh.RefreshSubject(r.Context(), id)
	ac.cache.Purge()
	if err != nil {
		if errorStatus(err) == http.StatusInternalServerError {
			ac.logger.Warnf(providers.TypeFetch, "refresh %s: %s", id, err)
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
			return
		}
		ac.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
