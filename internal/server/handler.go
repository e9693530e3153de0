package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/document"
	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/schemas"
	"github.com/NoobSambit/AI-Career-Assistant-sub000/internal/scoring"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	tracerName = "careerassist.api"

	// multipart parts above this spill to temporary files
	multipartMemory = 8 << 20

	// generic media type sent by most clients when they do not know better
	octetStream = "application/octet-stream"
)

// parseHandler extracts text from a multipart upload
func (s *Server) parseHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.Observability.Tracer(tracerName).Start(r.Context(), "api.parse")
	defer span.End()

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.type", "validation"))
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeErrorResponse(w, "Request body too large", err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		writeErrorResponse(w, "Invalid multipart form", err.Error(), http.StatusBadRequest)
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			s.Logger.Warn("Failed to remove multipart temp files", "error", err)
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.type", "validation"))
		writeErrorResponse(w, "Missing file", "multipart field 'file' is required", http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		span.RecordError(err)
		writeErrorResponse(w, "Failed to read upload", err.Error(), http.StatusBadRequest)
		return
	}

	mediaType := declaredMediaType(r.FormValue("mediaType"), header.Header.Get("Content-Type"), data)
	span.SetAttributes(
		attribute.String("request.media_type", mediaType),
		attribute.Int("request.size_bytes", len(data)),
	)

	doc := s.Parser.Parse(ctx, document.File{
		Bytes:     data,
		MediaType: mediaType,
		Name:      header.Filename,
	})

	if doc.Failed() {
		span.SetStatus(codes.Error, doc.Error)
		s.Logger.Info("Document extraction failed",
			"file", header.Filename,
			"media_type", mediaType,
			"error_kind", doc.ErrorKind,
			"request_id", RequestID(ctx))
		writeErrorResponse(w, string(doc.ErrorKind), doc.Error, http.StatusUnprocessableEntity)
		return
	}

	span.SetAttributes(
		attribute.String("document.method", string(doc.Method)),
		attribute.Int("response.text_length", len(doc.Text)),
	)
	writeJSON(w, http.StatusOK, doc)
}

// declaredMediaType prefers the explicit form field, then the part header,
// then content sniffing. A part typed application/octet-stream counts as undeclared.
func declaredMediaType(formValue, partType string, data []byte) string {
	if formValue != "" {
		return formValue
	}
	if partType != "" && document.NormalizeMediaType(partType) != octetStream {
		return partType
	}
	return document.SniffMediaType(data)
}

func (s *Server) atsHandler() http.HandlerFunc {
	return scoreHandler(s, "ats", schemas.ATSRequest, func(req ATSRequest) (scoring.ATSScoreResult, int, string) {
		result := scoring.CalculateATSScore(req.ResumeText)
		return result, result.Score, string(result.Grade)
	})
}

func (s *Server) starHandler() http.HandlerFunc {
	return scoreHandler(s, "star", schemas.STARRequest, func(req STARRequest) (scoring.StarEvaluation, int, string) {
		result := scoring.EvaluateSTARStructure(req.Answer)
		return result, result.OverallScore, "ungraded"
	})
}

func (s *Server) toneHandler() http.HandlerFunc {
	return scoreHandler(s, "tone", schemas.ToneRequest, func(req ToneRequest) (scoring.EmailToneResult, int, string) {
		result := scoring.AssessEmailTone(req.Original, req.Rewritten, req.TargetTone)
		return result, result.Score, string(result.Grade)
	})
}

// scoreHandler validates a JSON body against schema, decodes it into Req and
// writes the scorer result
func scoreHandler[Req, Res any](s *Server, scorer string, schema schemas.Name, score func(Req) (Res, int, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := s.Observability.Tracer(tracerName).Start(r.Context(), "api.score."+scorer)
		defer span.End()

		body, err := readJSONBody(r)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if err := schemas.Validate(schema, body); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "schema"))
			var validationErr *schemas.ValidationError
			if errors.As(err, &validationErr) {
				writeJSON(w, http.StatusBadRequest, ErrorResponse{
					Error:   "Invalid request body",
					Message: "request does not match schema " + string(schema),
					Details: validationErr.Errors,
				})
				return
			}
			writeErrorResponse(w, "Schema unavailable", err.Error(), http.StatusInternalServerError)
			return
		}

		var req Req
		if err := json.Unmarshal(body, &req); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		result, value, grade := score(req)
		s.Observability.GetMetrics().RecordScore(ctx, scorer, value, grade)
		span.SetAttributes(
			attribute.String("scorer", scorer),
			attribute.Int("score", value),
			attribute.String("grade", grade),
		)

		writeJSON(w, http.StatusOK, result)
	}
}
