package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/boolmaze-server/internal/repository"
)

type RecordsHandler struct {
	logger  *logrus.Logger
	records repository.Recorder
}

func NewRecordsHandler(logger *logrus.Logger, records repository.Recorder) *RecordsHandler {
	return &RecordsHandler{logger: logger, records: records}
}

func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	dto, err := parseQuery[RecordsDTO](r.URL.Query())
	if err != nil {
		sendError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	records, err := h.records.GetRecords(r.Context(), repository.RecordFilter{
		Serial:     dto.Serial,
		MaxStrikes: dto.MaxStrikes,
	})
	if err != nil {
		h.logger.WithError(err).Error("unable to fetch records")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	sendJSONOrLog(w, h.logger, records)
}
