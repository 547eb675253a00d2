package handlers

import (
	"net/http"

	"github.com/anonto42/tuiter/backend/internal/events"
	"github.com/anonto42/tuiter/backend/internal/middleware"
	"github.com/anonto42/tuiter/backend/internal/models"
	"github.com/anonto42/tuiter/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	followRepository repositories.FollowRepository
	publisher        events.Publisher
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followRepo repositories.FollowRepository, publisher events.Publisher) *FollowHandler {
	return &FollowHandler{
		followRepository: followRepo,
		publisher:        publisher,
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group, guard middleware.Guard) {
	g.GET("/users/:uid/following", h.FindUsersFollowedByUser)
	g.GET("/users/:uid/followers", h.FindUsersFollowingUser)
	g.GET("/users/:uidFollowing/follows/:uidFollowed", h.IsFollowing)
	g.POST("/users/:uidFollowing/follows/:uidFollowed", h.UserFollowsUser, guard("uidFollowing")...)
	g.DELETE("/users/:uidFollowing/follows/:uidFollowed", h.UserUnfollowsUser, guard("uidFollowing")...)
}

// FindUsersFollowedByUser lists the users uid follows
func (h *FollowHandler) FindUsersFollowedByUser(c echo.Context) error {
	var p models.UserPathParams
	if err := bindPath(c, &p); err != nil {
		return err
	}
	follows, err := h.followRepository.FindUsersFollowedByUser(c.Request().Context(), p.UID)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, follows)
}

// FindUsersFollowingUser lists the users following uid
func (h *FollowHandler) FindUsersFollowingUser(c echo.Context) error {
	var p models.UserPathParams
	if err := bindPath(c, &p); err != nil {
		return err
	}
	follows, err := h.followRepository.FindUsersFollowingUser(c.Request().Context(), p.UID)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, follows)
}

// UserFollowsUser records that uidFollowing follows uidFollowed
func (h *FollowHandler) UserFollowsUser(c echo.Context) error {
	var p models.FollowPathParams
	if err := bindPath(c, &p); err != nil {
		return err
	}
	ctx := c.Request().Context()
	follow, err := h.followRepository.UserFollowsUser(ctx, p.UIDFollowing, p.UIDFollowed)
	if err != nil {
		return storeError(err)
	}
	publish(ctx, h.publisher, events.NewEvent(events.FollowCreated, p.UIDFollowing, p.UIDFollowed))
	return c.JSON(http.StatusOK, follow)
}

// UserUnfollowsUser removes the follow from uidFollowing to uidFollowed
func (h *FollowHandler) UserUnfollowsUser(c echo.Context) error {
	var p models.FollowPathParams
	if err := bindPath(c, &p); err != nil {
		return err
	}
	ctx := c.Request().Context()
	status, err := h.followRepository.UserUnfollowsUser(ctx, p.UIDFollowing, p.UIDFollowed)
	if err != nil {
		return storeError(err)
	}
	if status.DeletedCount > 0 {
		publish(ctx, h.publisher, events.NewEvent(events.FollowDeleted, p.UIDFollowing, p.UIDFollowed))
	}
	return c.JSON(http.StatusOK, status)
}

// IsFollowing reports whether uidFollowing follows uidFollowed
func (h *FollowHandler) IsFollowing(c echo.Context) error {
	var p models.FollowPathParams
	if err := bindPath(c, &p); err != nil {
		return err
	}
	following, err := h.followRepository.IsFollowing(c.Request().Context(), p.UIDFollowing, p.UIDFollowed)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"following": following})
}
