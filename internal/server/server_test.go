package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/tender-analyzer/constants"
	"github.com/joseph-ayodele/tender-analyzer/internal/common"
	"github.com/joseph-ayodele/tender-analyzer/internal/core"
	"github.com/joseph-ayodele/tender-analyzer/internal/core/textextract"
	"github.com/joseph-ayodele/tender-analyzer/internal/entity"
	"github.com/joseph-ayodele/tender-analyzer/internal/export"
	"github.com/joseph-ayodele/tender-analyzer/internal/repository"
)

const tenderDoc = `Bid Number: GEM/2025/B/6120044
Ministry: Ministry of Power

IMPORTANT DATES
Bid End Date: 10-04-2025 17:00 PM

Technical Specifications
S.No. 1
Item Category: Transformer
Quantity: 3 Nos`

type fixture struct {
	db       *repository.DB
	proc     *core.Processor
	analyses repository.AnalysisRepository
	handler  http.Handler
}

func newFixture(t *testing.T, opts ...HTTPOption) *fixture {
	t.Helper()
	ctx := context.Background()
	db, err := ConnectDB(ctx, common.DatabaseConfig{SQLitePath: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	analyses := repository.NewAnalysisRepository(db, nil)
	proc := core.NewProcessor(nil, textextract.NewExtractor(textextract.Config{}, nil), nil, analyses)
	opts = append([]HTTPOption{WithHealthChecker(db)}, opts...)
	srv := NewHTTPServer(proc, analyses, export.NewService(nil), nil, opts...)
	return &fixture{db: db, proc: proc, analyses: analyses, handler: srv.Routes()}
}

func (f *fixture) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func uploadRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/extract-info/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestExtractInfoReturnsWorkbook(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, uploadRequest(t, "file", "power-tender.txt", []byte(tenderDoc)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="power-tender_structured.xlsx"`)

	wb, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer wb.Close()
	v, err := wb.GetCellValue(export.SheetKeyFields, "B2")
	require.NoError(t, err)
	assert.Equal(t, "GEM/2025/B/6120044", v)
	assert.Contains(t, wb.GetSheetList(), export.SheetBOQ)
}

func TestExtractInfoRejections(t *testing.T) {
	f := newFixture(t, WithMaxUploadBytes(1024))

	rec := f.do(t, uploadRequest(t, "file", "tender.docx", []byte("x")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec), "must be a .pdf or .txt document")

	rec = f.do(t, uploadRequest(t, "document", "tender.txt", []byte(tenderDoc)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, uploadRequest(t, "file", "big.txt", bytes.Repeat([]byte("a"), 4096)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = f.do(t, uploadRequest(t, "file", "blank.txt", []byte("   \n ")))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAnalysesAPI(t *testing.T) {
	f := newFixture(t)

	body, _ := json.Marshal(AnalyzeTextRequest{Source: "pasted.txt", Text: tenderDoc})
	rec := f.do(t, httptest.NewRequest(http.MethodPost, "/api/v1/analyses", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var a entity.Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
	assert.Equal(t, string(constants.AnalysisStatusOK), a.Status)
	require.NotNil(t, a.Result)
	assert.Equal(t, "GEM/2025/B/6120044", a.Result.KeyFields[constants.FieldTenderID])

	rec = f.do(t, httptest.NewRequest(http.MethodPost, "/api/v1/analyses", bytes.NewReader(body)))
	assert.Equal(t, http.StatusOK, rec.Code, "identical text is reused")

	rec = f.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+a.ID.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/analyses?limit=5", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Analyses []AnalysisSummary `json:"analyses"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Analyses, 1)
	assert.Equal(t, a.ID, list.Analyses[0].ID)

	rec = f.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+a.ID.String()+"/report.xlsx", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "pasted_structured.xlsx")

	rec = f.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+a.ID.String()+"/report.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, export.ValidateReport(rec.Body.Bytes()))
}

func TestAnalysesAPIErrors(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, httptest.NewRequest(http.MethodPost, "/api/v1/analyses", bytes.NewReader([]byte(`{"text": ""}`))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec), "text")

	rec = f.do(t, httptest.NewRequest(http.MethodPost, "/api/v1/analyses", bytes.NewReader([]byte(`{`))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/analyses/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/analyses?limit=-1", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(common.ErrNotFound))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(common.ErrUnsupportedFormat))
	assert.Equal(t, http.StatusRequestEntityTooLarge, HTTPStatus(common.ErrFileTooLarge))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(common.ErrDatabase))
}

func dialBufconn(t *testing.T, f *fixture) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	gs, _ := NewGRPCServer(NewAnalysisService(f.proc, f.analyses, nil), nil)
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) { return lis.Dial() }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestGRPCAnalyzeAndGet(t *testing.T) {
	f := newFixture(t)
	conn := dialBufconn(t, f)
	client := NewAnalysisServiceClient(conn)
	ctx := context.Background()

	req, err := structpb.NewStruct(map[string]any{"source": "grpc.txt", "text": tenderDoc})
	require.NoError(t, err)
	resp, err := client.Analyze(ctx, req)
	require.NoError(t, err)

	id := resp.GetFields()["id"].GetStringValue()
	require.NotEmpty(t, id)
	assert.Equal(t, "OK", resp.GetFields()["status"].GetStringValue())
	keyFields := resp.GetFields()["result"].GetStructValue().GetFields()["key_fields"].GetStructValue()
	assert.Equal(t, "GEM/2025/B/6120044", keyFields.GetFields()[constants.FieldTenderID].GetStringValue())

	getReq, _ := structpb.NewStruct(map[string]any{"id": id})
	got, err := client.GetAnalysis(ctx, getReq)
	require.NoError(t, err)
	assert.Equal(t, "grpc.txt", got.GetFields()["source"].GetStringValue())

	health, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: AnalysisServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, health.GetStatus())
}

func TestGRPCErrors(t *testing.T) {
	f := newFixture(t)
	client := NewAnalysisServiceClient(dialBufconn(t, f))
	ctx := context.Background()

	_, err := client.Analyze(ctx, &structpb.Struct{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	bad, _ := structpb.NewStruct(map[string]any{"id": "nope"})
	_, err = client.GetAnalysis(ctx, bad)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	missing, _ := structpb.NewStruct(map[string]any{"id": uuid.NewString()})
	_, err = client.GetAnalysis(ctx, missing)
	assert.Equal(t, codes.NotFound, status.Code(err))
}
