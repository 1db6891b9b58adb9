package echoapi

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasa-app/darasa/core"
	"github.com/darasa-app/darasa/core/attendance"
	"github.com/darasa-app/darasa/core/schedule"
	"github.com/darasa-app/darasa/core/user"
	exportsvc "github.com/darasa-app/darasa/services/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type attendanceApi struct {
	svc      attendance.Service
	schedSvc schedule.Service
	usrSvc   user.Service
	validate *validator.Validate
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := attendanceApi{
		svc:      deps.AttendanceSvc,
		schedSvc: deps.ScheduleSvc,
		usrSvc:   deps.UserSvc,
		validate: deps.Validate,
	}

	ag := g.Group("/attendance", jwt)
	ag.GET("/student/:studentId", api.studentRecords)
	ag.GET("/student/:studentId/summary", api.studentSummary)
	ag.GET("/schedule/:scheduleId", api.scheduleRecords)
	ag.GET("/schedule/:scheduleId/export", api.export, staffMiddleware())
	ag.POST("/mark", api.mark, staffMiddleware())
}

type (
	markRecord struct {
		StudentID  string            `json:"student_id" validate:"required"`
		ScheduleID string            `json:"schedule_id" validate:"required"`
		Date       string            `json:"date" validate:"required,dateymd"`
		Status     attendance.Status `json:"status" validate:"required,attstatus"`
		Notes      string            `json:"notes"`
	}

	markRequest struct {
		Records []markRecord `json:"records" validate:"required,min=1,dive"`
	}
)

func (api *attendanceApi) studentRecords(ctx echo.Context) error {
	recs, err := api.svc.RecordsForStudent(ctx.Request().Context(), ctx.Param("studentId"), ctx.QueryParam("date"))
	if err != nil {
		return errors.Wrap(err, "querying student records")
	}
	return respondList(ctx, http.StatusOK, "attendance", recs, len(recs))
}

func (api *attendanceApi) studentSummary(ctx echo.Context) error {
	s, err := api.svc.StudentSummary(ctx.Request().Context(), ctx.Param("studentId"))
	if err != nil {
		return errors.Wrap(err, "computing student summary")
	}
	return respond(ctx, http.StatusOK, "summary", s)
}

func (api *attendanceApi) scheduleRecords(ctx echo.Context) error {
	recs, err := api.svc.RecordsForSchedule(ctx.Request().Context(), ctx.Param("scheduleId"))
	if err != nil {
		return errors.Wrap(err, "querying schedule records")
	}
	return respondList(ctx, http.StatusOK, "attendance", recs, len(recs))
}

func (api *attendanceApi) export(ctx echo.Context) error {
	rctx := ctx.Request().Context()
	scheduleID := ctx.Param("scheduleId")

	sched, err := api.schedSvc.GetByID(rctx, scheduleID)
	if err != nil {
		if errors.Cause(err) == schedule.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting schedule")
	}

	recs, err := api.svc.RecordsForSchedule(rctx, scheduleID)
	if err != nil {
		return errors.Wrap(err, "querying schedule records")
	}

	buf, err := exportsvc.AttendanceSheet(sched, recs)
	if err != nil {
		return errors.Wrap(err, "rendering attendance sheet")
	}

	filename := fmt.Sprintf("attendance-%s-%s.xlsx", sched.Group, sched.Date)
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename=`+filename)
	return ctx.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

// mark replaces the attendance roster for one class meeting. All submitted
// records must share the first record's (schedule_id, date); students of the
// schedule's group left unmarked are recorded as absent.
func (api *attendanceApi) mark(ctx echo.Context) error {
	var data markRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to markRequest")
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	rctx := ctx.Request().Context()
	scheduleID, date := data.Records[0].ScheduleID, data.Records[0].Date

	entries := make([]attendance.Entry, 0, len(data.Records))
	marked := make(map[string]struct{}, len(data.Records))
	for _, rec := range data.Records {
		if rec.ScheduleID != scheduleID || rec.Date != date {
			return core.NewValidationError(nil, core.FieldError{
				Field: "records",
				Error: "all records must belong to the same schedule and date",
			})
		}
		entries = append(entries, attendance.Entry{
			StudentID: rec.StudentID,
			Status:    rec.Status,
			Notes:     rec.Notes,
		})
		marked[rec.StudentID] = struct{}{}
	}

	sched, err := api.schedSvc.GetByID(rctx, scheduleID)
	if err != nil {
		if errors.Cause(err) == schedule.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting schedule")
	}

	// unmarked group members default to absent
	roster, err := api.usrSvc.GroupRoster(rctx, sched.Group)
	if err != nil {
		return errors.Wrap(err, "resolving group roster")
	}
	for _, student := range roster {
		if _, ok := marked[student.ID]; !ok {
			entries = append(entries, attendance.Entry{
				StudentID: student.ID,
				Status:    attendance.StatusAbsent,
			})
		}
	}

	recs, err := api.svc.Replace(rctx, scheduleID, date, entries)
	if err != nil {
		if errors.Cause(err) == attendance.ErrScheduleNotFound {
			return errHTTPNotFound
		}
		return err
	}
	return respondList(ctx, http.StatusCreated, "attendance", recs, len(recs))
}
