package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/exalaa/candidate-client/internal/client/client"
	"github.com/exalaa/candidate-client/internal/client/services"
)

var fieldMessages = map[string]string{
	"email":    "Введите корректный email",
	"fullname": "Имя должно быть не длиннее 255 символов",
	"code":     "Код должен состоять из 6 символов",
	"text":     "Ответ не может быть пустым",
}

// UserMessage turns err into the short localized text shown to the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var fe *services.FieldError
	if errors.As(err, &fe) {
		if msg, ok := fieldMessages[fe.Field]; ok {
			return msg
		}
		return "Некорректные данные"
	}

	var apiErr *client.APIError
	switch {
	case errors.Is(err, ErrWrongView):
		return "Команда недоступна на этом экране"
	case errors.Is(err, ErrUnknownApplication):
		return "Заявка не найдена"
	case errors.Is(err, services.ErrSubmitInProgress):
		return "Ответ уже отправляется, подождите"
	case errors.Is(err, services.ErrSurveyNotLoaded):
		return "Анкета ещё не загружена"
	case errors.Is(err, services.ErrSurveyClosed):
		return "Анкета уже закрыта"
	case errors.Is(err, client.ErrUnauthorized):
		return "Сессия недействительна, войдите снова"
	case errors.Is(err, client.ErrUnavailable):
		return "Сервер недоступен, попробуйте позже"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "Операция прервана"
	case errors.As(err, &apiErr):
		if apiErr.Detail != "" {
			return "Запрос отклонён: " + apiErr.Detail
		}
		return fmt.Sprintf("Запрос отклонён (код %d)", apiErr.StatusCode)
	default:
		return "Что-то пошло не так, попробуйте ещё раз"
	}
}
