package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/vvladislovv/GreMiuv/core"
	"github.com/vvladislovv/GreMiuv/core/identity"
	"github.com/vvladislovv/GreMiuv/core/ranking"
	"github.com/vvladislovv/GreMiuv/core/student"
	"github.com/vvladislovv/GreMiuv/services/gradebook"
)

type studentApi struct {
	logger   core.Logger
	lookup   identity.Lookup
	store    identity.FallbackStore
	svc      *student.Service
	rankings *ranking.Cache
	sessions *sessionRegistry
	validate *validator.Validate
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, s *Server) {
	api := studentApi{
		logger:   s.deps.Logger,
		lookup:   s.deps.Lookup,
		store:    s.deps.Store,
		svc:      s.deps.StudentSvc,
		rankings: s.deps.Rankings,
		sessions: s.sessions,
		validate: s.deps.Validate,
	}

	// un-authed endpoint: establishes the session
	g.POST("/session", api.startSession)

	// authed endpoints
	mg := g.Group("/me", jwt)
	mg.GET("", api.me)
	mg.GET("/calendar", api.calendar)
	mg.GET("/ratings", api.subjectRatings)

	gg := g.Group("/groups", jwt)
	gg.GET("/:id/rating", api.groupRating)
}

// Handlers

// startSession runs the identity fallback chain for this launch. An
// unresolved outcome is a guidance state (200), never an error.
func (api *studentApi) startSession(ctx echo.Context) error {
	var data SessionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SessionRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	env := identity.Env{
		StartParam: data.StartParam,
		InitData:   ctx.Request().Header.Get(gradebook.InitDataHeader),
	}
	resolver := identity.NewResolver(env, api.lookup, api.store, api.logger)
	fio, state := resolver.Resolve(ctx.Request().Context())

	if state != identity.StateResolved {
		return ctx.JSON(http.StatusOK, SessionResponse{
			Status:  state.String(),
			Message: guidanceMessage,
		})
	}

	var displayName, avatarURL string
	if usr := resolver.HostUser(); usr != nil {
		displayName = usr.DisplayName()
		avatarURL = usr.PhotoURL
	}
	sess := api.sessions.create(fio, displayName, avatarURL)

	token, err := GenerateToken(GetSessionClaims(sess.id, fio))
	if err != nil {
		return errors.Wrap(err, "generating session token")
	}

	return ctx.JSON(http.StatusOK, SessionResponse{
		Status: state.String(),
		FIO:    fio,
		Token:  token,
	})
}

func (api *studentApi) me(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	sess := api.sessions.getOrCreate(claims.SessionID, claims.FIO)

	snap, err := sess.loader.Wait(ctx.Request().Context())
	if err != nil {
		return core.NewTransportError(err)
	}
	if snap.Err != nil {
		return snap.Err
	}

	resp := MeResponse{Subjects: snap.Subjects}
	if snap.Student != nil {
		stu := *snap.Student
		stu.DisplayName = sess.displayName
		stu.AvatarURL = sess.avatarURL
		resp.Student = &stu
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *studentApi) calendar(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var query CalendarQuery
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to CalendarQuery")
	}
	if err := query.Validate(api.validate); err != nil {
		return err
	}

	cal, err := api.svc.Calendar(ctx.Request().Context(), claims.FIO, query.SubjectID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, cal)
}

func (api *studentApi) subjectRatings(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	ratings, err := api.svc.SubjectRatings(ctx.Request().Context(), claims.FIO)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ratings)
}

func (api *studentApi) groupRating(ctx echo.Context) error {
	if _, err := getContextClaims(ctx); err != nil {
		return err
	}

	groupID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || groupID <= 0 {
		return core.NewValidationError(nil, core.FieldError{Field: "id", Error: "group id must be a positive number"})
	}

	ratings, err := api.rankings.Get(ctx.Request().Context(), groupID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, GroupRatingResponse{
		GroupID:   groupID,
		ByGrade:   ratings.ByGrade,
		ByAbsence: ratings.ByAbsence,
	})
}
