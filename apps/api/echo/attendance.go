package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/academiplan/backend/core/attendance"
	"github.com/academiplan/backend/core/subject"
)

type attendanceApi struct {
	svc      attendance.ServiceInterface
	validate *validator.Validate
}

func registerAttendanceAPI(
	e *echo.Echo,
	jwt, tenant echo.MiddlewareFunc,
	svc attendance.ServiceInterface,
	validate *validator.Validate,
) {
	api := attendanceApi{
		svc:      svc,
		validate: validate,
	}

	e.POST("/attendance", api.mark, jwt, tenant)

	g := e.Group("/history", jwt, tenant)
	g.GET("", api.history)
	g.DELETE("/:id", api.undo)
}

// Handlers

func (api *attendanceApi) mark(ctx echo.Context) error {
	var data attendance.MarkAttendance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MarkAttendance")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := contextUser(ctx)
	if err != nil {
		return err
	}

	ev, err := api.svc.Mark(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		if errors.Cause(err) == subject.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "marking attendance")
	}
	return ctx.JSON(http.StatusOK, ev)
}

func (api *attendanceApi) history(ctx echo.Context) error {
	usr, err := contextUser(ctx)
	if err != nil {
		return err
	}

	entries, err := api.svc.History(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "querying attendance history")
	}
	if entries == nil {
		entries = []attendance.HistoryEntry{}
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *attendanceApi) undo(ctx echo.Context) error {
	usr, err := contextUser(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.Undo(ctx.Request().Context(), usr.ID, ctx.Param("id")); err != nil {
		if errors.Cause(err) == attendance.ErrEventNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "undoing attendance event")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Attendance event undone"})
}
