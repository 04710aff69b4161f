package handler // handler package contains rating endpoints

import (
	"context"
	"net/http"
	"time"

	"github.com/iliyamo/movie-catalog/internal/queue"
	"github.com/iliyamo/movie-catalog/internal/repository"
	queue_publisher "github.com/iliyamo/movie-catalog/internal/service"
	"github.com/labstack/echo/v4"
)

// RatingHandler bundles the dependencies of the /api/ratings endpoint.
type RatingHandler struct {
	Ratings *repository.RatingRepo
	Movies  *repository.MovieRepo
}

// NewRatingHandler constructs a RatingHandler and panics if a dependency is nil.
func NewRatingHandler(ratings *repository.RatingRepo, movies *repository.MovieRepo) *RatingHandler {
	if ratings == nil || movies == nil {
		panic("nil dependency passed to NewRatingHandler")
	}
	return &RatingHandler{Ratings: ratings, Movies: movies}
}

// ratingReq is the body of POST /api/ratings.
type ratingReq struct {
	MovieID uint64 `json:"movieId" validate:"required"`
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
}

// Submit handles POST /api/ratings. A user has at most one rating per
// movie: submitting again overwrites the previous value in one statement,
// so concurrent submissions from the same user can never produce two rows.
func (h *RatingHandler) Submit(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}

	var req ratingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	movie, err := h.Movies.GetByID(c.Request().Context(), req.MovieID)
	if err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}

	if err := h.Ratings.Upsert(c.Request().Context(), req.MovieID, userID, req.Rating); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not save rating"})
	}

	// Publishing is best effort and must not delay the response.
	event := queue.RatingSubmittedEvent{
		MovieID:     req.MovieID,
		MovieTitle:  movie.Title,
		UserID:      userID,
		Rate:        req.Rating,
		SubmittedAt: time.Now().UTC(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishRatingSubmitted(ctx, event)
	}()

	return c.NoContent(http.StatusNoContent)
}
