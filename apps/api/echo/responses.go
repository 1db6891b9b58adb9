package echoapi

import "github.com/labstack/echo/v4"

// successResponse is the success envelope:
// {"status":"success","results":N,"data":{<key>:...}}.
// results is present on list responses only.
type successResponse struct {
	Status  string   `json:"status"`
	Results *int     `json:"results,omitempty"`
	Data    echo.Map `json:"data"`
}

func respond(ctx echo.Context, code int, key string, v interface{}) error {
	return ctx.JSON(code, successResponse{
		Status: "success",
		Data:   echo.Map{key: v},
	})
}

func respondList(ctx echo.Context, code int, key string, v interface{}, results int) error {
	return ctx.JSON(code, successResponse{
		Status:  "success",
		Results: &results,
		Data:    echo.Map{key: v},
	})
}
