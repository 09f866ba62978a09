package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tbryce/muster/internal/army"
	"github.com/tbryce/muster/internal/herald"
	"github.com/tbryce/muster/internal/roster"
	"github.com/tbryce/muster/internal/unit"
	"gorm.io/gorm"
)

// registerRoutes sets up all API routes on the Gin router.
func registerRoutes(router *gin.Engine, db *gorm.DB, stages roster.Stages, h *herald.Herald) {
	api := router.Group("/api")

	api.GET("/stages", handleStages(stages))
	api.GET("/events", handleEvents(db))

	api.GET("/armies", handleArmyList(db))
	api.POST("/armies", handleArmyCreate(db))
	api.GET("/armies/:id", handleArmyGet(db))
	api.GET("/armies/:id/progress", handleArmyProgress(db, stages))
	api.DELETE("/armies/:id", handleArmyDelete(db))

	api.POST("/import", handleImport(db, stages))

	api.GET("/units", handleUnitList(db))
	api.POST("/units", handleUnitCreate(db, stages))
	api.GET("/units/:id", handleUnitGet(db))
	api.PATCH("/units/:id", handleUnitUpdate(db, stages, h))
	api.DELETE("/units/:id", handleUnitDelete(db))
}

// fail maps service errors onto HTTP statuses. Validation failures carry
// the offending field; unknown IDs map to 404.
func fail(c *gin.Context, err error) {
	var verr *roster.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": verr.Field})
	case strings.Contains(err.Error(), "not found"):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func handleStages(stages roster.Stages) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"stages":   stages,
			"initial":  stages.Initial(),
			"terminal": stages.Terminal(),
		})
	}
}

func handleArmyList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		armies, err := army.List(db)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"armies": armies})
	}
}

type armyCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func handleArmyCreate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req armyCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		a, err := army.Create(db, army.CreateOpts{Name: req.Name, Description: req.Description})
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, a)
	}
}

func handleArmyGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, err := army.Get(db, c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, a)
	}
}

func handleArmyProgress(db *gorm.DB, stages roster.Stages) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := army.Summarize(db, c.Param("id"), stages)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func handleArmyDelete(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := army.Delete(db, c.Param("id")); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

type importRequest struct {
	ArmyID string `json:"army_id"`
	Text   string `json:"text" binding:"required"`
	DryRun bool   `json:"dry_run"`
}

func handleImport(db *gorm.DB, stages roster.Stages) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req importRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		res := roster.ParseList(req.Text)
		if len(res.Entries) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no entries recognized in the pasted text"})
			return
		}
		if req.DryRun {
			c.JSON(http.StatusOK, gin.H{
				"army_name": res.ArmyName,
				"entries":   res.Entries,
			})
			return
		}

		units, err := unit.Import(db, res.Entries, req.ArmyID, stages)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"army_name": res.ArmyName,
			"units":     units,
		})
	}
}

func handleUnitList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		units, err := unit.List(db, unit.ListFilters{
			ArmyID:   c.Query("army_id"),
			Faction:  c.Query("faction"),
			State:    c.Query("state"),
			Category: c.Query("category"),
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"units": units})
	}
}

type commandRequest struct {
	Champion     int `json:"champion"`
	Musician     int `json:"musician"`
	BannerBearer int `json:"banner_bearer"`
}

type unitCreateRequest struct {
	ArmyID        string          `json:"army_id"`
	Name          string          `json:"name" binding:"required"`
	Category      string          `json:"category"`
	ModelCount    int             `json:"model_count"`
	ProgressCount int             `json:"progress_count"`
	State         string          `json:"state"`
	Details       string          `json:"details"`
	Command       *commandRequest `json:"command"`
}

func handleUnitCreate(db *gorm.DB, stages roster.Stages) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req unitCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Manual creation assumes a full command group unless the caller
		// spelled one out.
		command := roster.DefaultManualCommand()
		if req.Command != nil {
			command = roster.CommandComposition{
				Champion:     req.Command.Champion,
				Musician:     req.Command.Musician,
				BannerBearer: req.Command.BannerBearer,
			}
		}
		if req.ModelCount == 0 {
			req.ModelCount = 1
		}

		u, err := unit.Create(db, roster.DraftEntry{
			Name:          req.Name,
			Category:      req.Category,
			ModelCount:    req.ModelCount,
			ProgressCount: req.ProgressCount,
			State:         req.State,
			Details:       req.Details,
			Command:       command,
		}, req.ArmyID, stages)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, u)
	}
}

func handleUnitGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := unit.Get(db, c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

type unitUpdateRequest struct {
	State         *string `json:"state"`
	ProgressCount *int    `json:"progress_count"`
}

func handleUnitUpdate(db *gorm.DB, stages roster.Stages, h *herald.Herald) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req unitUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		id := c.Param("id")
		before, err := unit.Get(db, id)
		if err != nil {
			fail(c, err)
			return
		}

		u, err := unit.Update(db, id, roster.TransitionRequest{
			State:         req.State,
			ProgressCount: req.ProgressCount,
		}, stages)
		if err != nil {
			fail(c, err)
			return
		}

		if h != nil && u.State == stages.Terminal() && before.State != u.State {
			h.UnitFinished(c.Request.Context(), u)
		}

		c.JSON(http.StatusOK, u)
	}
}

func handleUnitDelete(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := unit.Delete(db, c.Param("id")); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
