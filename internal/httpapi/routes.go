package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swamp-dev/eunoia/internal/model"
	"github.com/swamp-dev/eunoia/internal/report"
	"github.com/swamp-dev/eunoia/internal/store"
)

// resource adapts one record service to the generic CRUD handlers.
type resource[T any] struct {
	list   func(context.Context, store.Scope) ([]T, error)
	add    func(context.Context, store.Scope, T) (T, error)
	update func(context.Context, store.Scope, T) (T, error)
	delete func(context.Context, store.Scope, string) (bool, error)
	setID  func(*T, string)
}

func (s *Server) routes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.router.Group("/api")
	r := s.records

	register(s, api.Group("/tasks"), resource[model.Task]{
		r.Tasks.List, r.Tasks.Add, r.Tasks.Update, r.Tasks.Delete,
		func(t *model.Task, id string) { t.ID = id },
	})
	register(s, api.Group("/events"), resource[model.CalendarEvent]{
		r.Events.List, r.Events.Add, r.Events.Update, r.Events.Delete,
		func(e *model.CalendarEvent, id string) { e.ID = id },
	})
	register(s, api.Group("/expenses"), resource[model.Expense]{
		r.Expenses.List, r.Expenses.Add, r.Expenses.Update, r.Expenses.Delete,
		func(e *model.Expense, id string) { e.ID = id },
	})
	register(s, api.Group("/notes"), resource[model.Note]{
		r.Notes.List, r.Notes.Add, r.Notes.Update, r.Notes.Delete,
		func(n *model.Note, id string) { n.ID = id },
	})
	register(s, api.Group("/goals"), resource[model.Goal]{
		r.Goals.List, r.Goals.Add, r.Goals.Update, r.Goals.Delete,
		func(g *model.Goal, id string) { g.ID = id },
	})
	register(s, api.Group("/habits"), resource[model.Habit]{
		r.Habits.List, r.Habits.Add, r.Habits.Update, r.Habits.Delete,
		func(h *model.Habit, id string) { h.ID = id },
	})
	register(s, api.Group("/reminders"), resource[model.Reminder]{
		r.Reminders.List, r.Reminders.Add, r.Reminders.Update, r.Reminders.Delete,
		func(rm *model.Reminder, id string) { rm.ID = id },
	})
	register(s, api.Group("/logs"), resource[model.LogEntry]{
		r.Logs.List, r.Logs.Add, r.Logs.Update, r.Logs.Delete,
		func(l *model.LogEntry, id string) { l.ID = id },
	})
	register(s, api.Group("/gratitude"), resource[model.GratitudeLog]{
		r.Gratitude.List, r.Gratitude.Add, r.Gratitude.Update, r.Gratitude.Delete,
		func(g *model.GratitudeLog, id string) { g.ID = id },
	})
	register(s, api.Group("/reframing"), resource[model.ReframingLog]{
		r.Reframing.List, r.Reframing.Add, r.Reframing.Update, r.Reframing.Delete,
		func(rf *model.ReframingLog, id string) { rf.ID = id },
	})

	api.POST("/tasks/:id/toggle", s.toggleTask)
	api.POST("/habits/:id/complete", s.completeHabit)
	api.GET("/reminders/upcoming", s.upcomingReminders)
	api.POST("/goals/:id/status", s.setGoalStatus)
	api.POST("/reports/:feature", s.runReport)
}

func register[T any](s *Server, g *gin.RouterGroup, res resource[T]) {
	g.GET("", func(c *gin.Context) {
		scope, err := scopeOf(c)
		if err != nil {
			s.fail(c, err)
			return
		}
		items, err := res.list(c.Request.Context(), scope)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	})

	g.POST("", func(c *gin.Context) {
		scope, err := scopeOf(c)
		if err != nil {
			s.fail(c, err)
			return
		}
		var draft T
		if err := c.ShouldBindJSON(&draft); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		created, err := res.add(c.Request.Context(), scope, draft)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	})

	g.PUT("/:id", func(c *gin.Context) {
		scope, err := scopeOf(c)
		if err != nil {
			s.fail(c, err)
			return
		}
		var item T
		if err := c.ShouldBindJSON(&item); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		res.setID(&item, c.Param("id"))
		updated, err := res.update(c.Request.Context(), scope, item)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	})

	g.DELETE("/:id", func(c *gin.Context) {
		scope, err := scopeOf(c)
		if err != nil {
			s.fail(c, err)
			return
		}
		found, err := res.delete(c.Request.Context(), scope, c.Param("id"))
		if err != nil {
			s.fail(c, err)
			return
		}
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("%s not found", c.Param("id"))})
			return
		}
		c.Status(http.StatusNoContent)
	})
}

func (s *Server) toggleTask(c *gin.Context) {
	scope, err := scopeOf(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	t, err := s.records.Tasks.ToggleStatus(c.Request.Context(), scope, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (s *Server) completeHabit(c *gin.Context) {
	scope, err := scopeOf(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	h, err := s.records.Habits.MarkComplete(c.Request.Context(), scope, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h)
}

func (s *Server) upcomingReminders(c *gin.Context) {
	scope, err := scopeOf(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	items, err := s.records.Reminders.Upcoming(c.Request.Context(), scope)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

type goalStatusRequest struct {
	Status model.GoalStatus `json:"status" binding:"required"`
}

func (s *Server) setGoalStatus(c *gin.Context) {
	scope, err := scopeOf(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	var req goalStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	g, err := s.records.Goals.SetStatus(c.Request.Context(), scope, c.Param("id"), req.Status)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

type reportRequest struct {
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
}

// runReport coalesces identical in-flight requests so one model call serves them all.
func (s *Server) runReport(c *gin.Context) {
	scope, err := scopeOf(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	feature, err := report.ParseFeature(c.Param("feature"))
	if err != nil {
		s.fail(c, err)
		return
	}
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	key := scope.Namespace() + "|" + string(feature) + "|" + req.StartDate + "|" + req.EndDate
	ctx := context.WithoutCancel(c.Request.Context())
	v, err, shared := s.sf.Do(key, func() (interface{}, error) {
		return s.reports.Run(ctx, scope, feature, req.StartDate, req.EndDate)
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	if shared {
		s.logger.Debug("report request coalesced", "key", key)
	}
	c.JSON(http.StatusOK, v)
}
