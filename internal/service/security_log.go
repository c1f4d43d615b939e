package service

import (
	"context"
	"encoding/json"
	"io"

	"codebox/internal/entity"
	"codebox/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// securityLogger records auth events. Failures are logged and swallowed.
type securityLogger struct {
	logs   repository.SecurityLogRepository
	logger logrus.FieldLogger
}

func (s securityLogger) record(
	ctx context.Context,
	userID *string,
	ipAddress *string,
	action entity.SecurityAction,
	metadata map[string]any,
) {
	if s.logs == nil {
		return
	}
	var payload datatypes.JSON
	if metadata != nil {
		bytes, err := json.Marshal(metadata)
		if err != nil {
			s.logger.WithError(err).WithField("action", action).Warn("encode security log metadata")
			return
		}
		payload = datatypes.JSON(bytes)
	}
	log := &entity.SecurityLog{
		UserID:    userID,
		IPAddress: ipAddress,
		Action:    action,
		Metadata:  payload,
	}
	if err := s.logs.Log(ctx, log); err != nil {
		s.logger.WithError(err).WithField("action", action).Warn("write security log")
	}
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
