package dashboard

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/anshcare/kmc-dashboard/internal/domain/kpi"
	"github.com/anshcare/kmc-dashboard/internal/domain/records"
	"github.com/anshcare/kmc-dashboard/internal/platform/auth"
	"github.com/anshcare/kmc-dashboard/internal/platform/store"
)

type Handler struct {
	svc *Service
	now func() time.Time
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole("viewer", "analyst"))
	read.GET("/metrics/registration-timeliness", h.RegistrationTimeliness)
	read.GET("/metrics/kmc-initiation", h.KMCInitiation)
	read.GET("/metrics/followup-completion", h.FollowupCompletion)
	read.GET("/metrics/discharge-outcomes", h.DischargeOutcomes)
	read.GET("/metrics/mortality", h.Mortality)
	read.GET("/metrics/stay-duration", h.StayDuration)
	read.GET("/metrics/skin-contact", h.SkinContact)
	read.GET("/metrics/daily-kmc", h.DailyKMC)
	read.GET("/metrics/verification", h.Verification)
	read.GET("/metrics/critical-reasons", h.CriticalReasons)
	read.GET("/metrics/overview", h.Overview)
	read.GET("/snapshot", h.Snapshot)

	admin := api.Group("", auth.RequireRole("admin"))
	admin.POST("/snapshot/refresh", h.RefreshSnapshot)
}

// MetricResponse is the envelope every metric endpoint returns.
type MetricResponse struct {
	Metric      string             `json:"metric"`
	GeneratedAt time.Time          `json:"generated_at"`
	SnapshotAt  time.Time          `json:"snapshot_at"`
	Filter      records.Filter     `json:"filter"`
	BabyMerge   records.MergeStats `json:"baby_merge"`
	Result      interface{}        `json:"result"`
}

func (h *Handler) respond(c echo.Context, metric string, f records.Filter, view *View, result interface{}) error {
	return c.JSON(http.StatusOK, MetricResponse{
		Metric:      metric,
		GeneratedAt: h.now().UTC(),
		SnapshotAt:  view.FetchedAt,
		Filter:      f,
		BabyMerge:   view.BabyMerge,
		Result:      result,
	})
}

// view resolves the filter and snapshot for a metric request.
func (h *Handler) view(c echo.Context) (records.Filter, *View, error) {
	f, err := parseFilter(c)
	if err != nil {
		return records.Filter{}, nil, err
	}
	view, err := h.svc.View(f)
	if err != nil {
		if errors.Is(err, store.ErrNoSnapshot) {
			return records.Filter{}, nil, echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
		}
		return records.Filter{}, nil, err
	}
	return f, view, nil
}

func (h *Handler) RegistrationTimeliness(c echo.Context) error {
	f, view, err := h.view(c)
	if err != nil {
		return err
	}
	threshold := 24
	if raw := c.QueryParam("threshold"); raw != "" {
		threshold, err = strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "threshold must be an integer")
		}
	}
	res, err := kpi.RegistrationTimeliness(view.Babies, threshold)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return h.respond(c, "registration_timeliness", f, view, res)
}

func (h *Handler) KMCInitiation(c echo.Context) error {
	f, view, err := h.view(c)
	if err != nil {
		return err
	}
	return h.respond(c, "kmc_initiation", f, view, kpi.KMCInitiation(view.Babies))
}

func (h *Handler) FollowupCompletion(c echo.Context) error {
	f, view, err := h.view(c)
	if err != nil {
		return err
	}
	day := 2
	if raw := c.QueryParam("day"); raw != "" {
		day, err = strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "day must be an integer")
		}
	}
	res, err := kpi.FollowupCompletion(view.Babies, day, h.now().UTC())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return h.respond(c, "followup_completion", f, view, res)
}

func (h *Handler) DischargeOutcomes(c echo.Context) error {
	f, view, err := h.view(c)
	if err != nil {
		return err
	}
	return h.respond(c, "discharge_outcomes", f, view, kpi.DischargeOutcomes(view.Discharges, view.Babies))
}

func (h *Handler) Mortality(c echo.Context) error {
	f, view, err := h.view(c)
	if err != nil {
		return err
	}
	groupBy := c.QueryParam("group_by")
	if groupBy == "" {
		groupBy = kpi.GroupNone
	}
	res, err := kpi.Mortality(view.Babies, groupBy)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return h.respond(c, "mortality", f, view, res)
}

func (h *Handler) StayDuration(c echo.Context) error {
	f, view, err := h.view(c)
	if err != nil {
		return err
	}
	return h.respond(c, "stay_duration", f, view, kpi.StayDuration(view.Babies))
}

func (h *Handler) SkinContact(c echo.Context) error {
	f, view, err := h.view(c)
	if err != nil {
		return err
	}
	return h.respond(c, "skin_contact", f, view, kpi.SkinContact(view.Babies))
}

func (h *Handler) DailyKMC(c echo.Context) error {
	f, view, err := h.view(c)
	if err != nil {
		return err
	}
	return h.respond(c, "daily_kmc", f, view, kpi.DailyKMC(view.Babies, h.now().UTC()))
}

func (h *Handler) Verification(c echo.Context) error {
	f, view, err := h.view(c)
	if err != nil {
		return err
	}
	return h.respond(c, "verification", f, view, kpi.VerificationMonitoring(view.Babies))
}

func (h *Handler) CriticalReasons(c echo.Context) error {
	f, view, err := h.view(c)
	if err != nil {
		return err
	}
	return h.respond(c, "critical_reasons", f, view, kpi.CriticalReasons(view.Discharges))
}

func (h *Handler) Overview(c echo.Context) error {
	f, view, err := h.view(c)
	if err != nil {
		return err
	}
	return h.respond(c, "overview", f, view, kpi.Overview(view.Babies, view.Discharges))
}

func (h *Handler) Snapshot(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Status())
}

func (h *Handler) RefreshSnapshot(c echo.Context) error {
	if err := h.svc.Refresh(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, h.svc.Status())
}

// parseFilter reads the common filter params. from/to accept RFC3339 or a
// bare date; a bare "to" date extends to the end of that day so the range
// stays inclusive.
func parseFilter(c echo.Context) (records.Filter, error) {
	f := records.Filter{
		Hospital: c.QueryParam("hospital"),
		UID:      c.QueryParam("uid"),
	}
	if raw := c.QueryParam("from"); raw != "" {
		t, _, err := parseFilterTime(raw)
		if err != nil {
			return records.Filter{}, echo.NewHTTPError(http.StatusBadRequest, "invalid from date")
		}
		f.From = &t
	}
	if raw := c.QueryParam("to"); raw != "" {
		t, dateOnly, err := parseFilterTime(raw)
		if err != nil {
			return records.Filter{}, echo.NewHTTPError(http.StatusBadRequest, "invalid to date")
		}
		if dateOnly {
			t = t.AddDate(0, 0, 1).Add(-time.Second)
		}
		f.To = &t
	}
	return f, nil
}

func parseFilterTime(raw string) (t time.Time, dateOnly bool, err error) {
	if t, err = time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), false, nil
	}
	if t, err = time.Parse("2006-01-02", raw); err == nil {
		return t.UTC(), true, nil
	}
	return time.Time{}, false, err
}
