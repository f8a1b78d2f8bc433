package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	StatusErr          = "error"
	StatusSuccess      = "success"
	StatusNotAvailable = "not available"
	StatusOK           = "ok"
)

// ResponseWithData
// @Description Общий ответ success/error, содержащий произвольные данные.
type ResponseWithData struct {
	Status string `json:"status"` // Результат запроса
	Data   any    `json:"data"`   // Объект полезной нагрузки
} // @Name _ResponseWithData

// ResponseWithMessage
// @Description Общий простой ответ, который передает только понятное для человека сообщение.
type ResponseWithMessage struct {
	Status  string `json:"status"`  // Результат запроса
	Message string `json:"message"` // Человеко-читаемое сообщение
} // @Name _ResponseWithMessage

func NoMethod(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, ResponseWithMessage{
		Status:  StatusNotAvailable,
		Message: "method not allowed on this endpoint",
	})
}

func NoRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, ResponseWithMessage{
		Status:  StatusNotAvailable,
		Message: "page not found",
	})
}
