package handlers

import (
	"log"
	"net/http"

	"github.com/anonto42/tuiter/backend/internal/events"
	"github.com/anonto42/tuiter/backend/internal/middleware"
	"github.com/anonto42/tuiter/backend/internal/models"
	"github.com/anonto42/tuiter/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	likeRepository repositories.LikeRepository
	countCache     repositories.LikeCountCache
	publisher      events.Publisher
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likeRepo repositories.LikeRepository, countCache repositories.LikeCountCache, publisher events.Publisher) *LikeHandler {
	return &LikeHandler{
		likeRepository: likeRepo,
		countCache:     countCache,
		publisher:      publisher,
	}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group, guard middleware.Guard) {
	g.GET("/users/:uid/likes", h.FindAllTuitsLikedByUser)
	g.GET("/tuits/:tid/likes", h.FindAllUsersThatLikedTuit)
	g.GET("/tuits/:tid/likes/count", h.CountHowManyLikedTuit)
	g.POST("/users/:uid/likes/:tid", h.UserLikesTuit, guard("uid")...)
	g.DELETE("/users/:uid/likes/:tid", h.UserUnlikesTuit, guard("uid")...)
}

// FindAllTuitsLikedByUser lists the tuits uid liked
func (h *LikeHandler) FindAllTuitsLikedByUser(c echo.Context) error {
	var p models.UserPathParams
	if err := bindPath(c, &p); err != nil {
		return err
	}
	likes, err := h.likeRepository.FindAllTuitsLikedByUser(c.Request().Context(), p.UID)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, likes)
}

// FindAllUsersThatLikedTuit lists the users that liked tid
func (h *LikeHandler) FindAllUsersThatLikedTuit(c echo.Context) error {
	var p models.TuitPathParams
	if err := bindPath(c, &p); err != nil {
		return err
	}
	likes, err := h.likeRepository.FindAllUsersThatLikedTuit(c.Request().Context(), p.TID)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, likes)
}

// CountHowManyLikedTuit returns the like count of tid, served from cache when possible
func (h *LikeHandler) CountHowManyLikedTuit(c echo.Context) error {
	var p models.TuitPathParams
	if err := bindPath(c, &p); err != nil {
		return err
	}
	ctx := c.Request().Context()

	count, gen, ok, err := h.countCache.Get(ctx, p.TID)
	cacheable := err == nil
	if err != nil {
		log.Printf("like count cache read failed for tuit %s: %v", p.TID, err)
	}
	if !ok {
		count, err = h.likeRepository.CountHowManyLikedTuit(ctx, p.TID)
		if err != nil {
			return storeError(err)
		}
		// dropped when a like or unlike invalidated tid after the Get above
		if cacheable {
			if err := h.countCache.Set(ctx, p.TID, count, gen); err != nil {
				log.Printf("like count cache write failed for tuit %s: %v", p.TID, err)
			}
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"tuit": p.TID, "likes_count": count})
}

// UserLikesTuit records that uid likes tid
func (h *LikeHandler) UserLikesTuit(c echo.Context) error {
	var p models.LikePathParams
	if err := bindPath(c, &p); err != nil {
		return err
	}
	ctx := c.Request().Context()
	like, err := h.likeRepository.UserLikesTuit(ctx, p.UID, p.TID)
	if err != nil {
		return storeError(err)
	}
	h.invalidateCount(c, p.TID)
	publish(ctx, h.publisher, events.NewEvent(events.LikeCreated, p.UID, p.TID))
	return c.JSON(http.StatusOK, like)
}

// UserUnlikesTuit removes the like of uid on tid
func (h *LikeHandler) UserUnlikesTuit(c echo.Context) error {
	var p models.LikePathParams
	if err := bindPath(c, &p); err != nil {
		return err
	}
	ctx := c.Request().Context()
	status, err := h.likeRepository.UserUnlikesTuit(ctx, p.UID, p.TID)
	if err != nil {
		return storeError(err)
	}
	if status.DeletedCount > 0 {
		h.invalidateCount(c, p.TID)
		publish(ctx, h.publisher, events.NewEvent(events.LikeDeleted, p.UID, p.TID))
	}
	return c.JSON(http.StatusOK, status)
}

func (h *LikeHandler) invalidateCount(c echo.Context, tid string) {
	if err := h.countCache.Invalidate(c.Request().Context(), tid); err != nil {
		log.Printf("like count cache invalidate failed for tuit %s: %v", tid, err)
	}
}
