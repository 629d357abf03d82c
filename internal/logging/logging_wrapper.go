package logging

import (
	"net/http"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"
)

// LoggingWrapper adapts a handler to http.HandlerFunc, giving each request
// its own LogData (reachable through the request context), a request id, and
// Start/Complete/Error log entries with the request duration.
func LoggingWrapper(
	loggingName string,
	log *logrus.Logger,
	handler func(http.ResponseWriter, *http.Request, *LogData) error,
) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		logData := NewLogData(log)
		if requestID, err := uuid.NewV4(); err == nil {
			logData.AddData("requestID", requestID.String())
		}

		log.Infof("Handler.%v.Start", loggingName)

		req = req.WithContext(WithLogData(req.Context(), logData))

		endTimer := logData.AddTiming("durationMs")
		err := handler(w, req, logData)
		endTimer()

		if err != nil {
			logData.Log().WithError(err).Errorf("Handler.%v.Error", loggingName)
			return
		}

		logData.Log().Infof("Handler.%v.Complete", loggingName)
	}
}
