package registry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

const jsonrpcVersion = "2.0"

// RemoteRegistry speaks JSON-RPC to a registry node. It satisfies Registry so
// the ledger does not care whether ownership lives in process or remotely.
type RemoteRegistry struct {
	url        string
	httpClient *retryablehttp.Client
	timeout    int
	debug      bool
}

type rpcRequest struct {
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	Id      int64       `json:"id"`
	JsonRpc string      `json:"jsonrpc"`
}

type RPCError struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

var _ error = (*RPCError)(nil)

func (e RPCError) Error() string {
	return fmt.Sprintf("%d:%s", e.Code, e.Message)
}

type rpcResponse struct {
	Id     int64           `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

func NewRemoteRegistry(url string, timeout int, debug bool) (*RemoteRegistry, error) {
	if len(url) == 0 {
		return nil, errors.New("bad call missing argument host")
	}

	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	retryClient.RetryMax = 3

	return &RemoteRegistry{url, retryClient, timeout, debug}, nil
}

func (r *RemoteRegistry) HolderOf(contract string, tokenId uint64) (string, error) {
	resp, err := r.call("GetTokenHolder", map[string]interface{}{"contract": contract, "tokenId": tokenId})
	if err != nil {
		return "", err
	}

	var holder string
	if err := json.Unmarshal(resp.Result, &holder); err != nil {
		return "", err
	}

	return holder, nil
}

func (r *RemoteRegistry) IsApprovedForAll(holder, operator string) (bool, error) {
	resp, err := r.call("GetOperatorApproval", map[string]interface{}{"holder": holder, "operator": operator})
	if err != nil {
		return false, err
	}

	var approved bool
	if err := json.Unmarshal(resp.Result, &approved); err != nil {
		return false, err
	}

	return approved, nil
}

func (r *RemoteRegistry) Transfer(contract string, tokenId uint64, from, to string) error {
	_, err := r.call("TransferFrom", map[string]interface{}{
		"contract": contract,
		"tokenId":  tokenId,
		"from":     from,
		"to":       to,
	})

	return err
}

// doTimeoutRequest process a HTTP request with timeout
func (r *RemoteRegistry) doTimeoutRequest(timer *time.Timer, req *retryablehttp.Request) (*http.Response, error) {
	type result struct {
		resp *http.Response
		err  error
	}
	done := make(chan result, 1)
	go func() {
		resp, err := r.httpClient.Do(req)
		done <- result{resp, err}
	}()

	select {
	case res := <-done:
		return res.resp, res.err
	case <-timer.C:
		return nil, errors.New("timeout reading data from server")
	}
}

// call prepare & exec the request
func (r *RemoteRegistry) call(method string, params interface{}) (rr *rpcResponse, err error) {
	rpcR := rpcRequest{method, params, time.Now().UnixNano(), jsonrpcVersion}
	payloadBuffer := &bytes.Buffer{}
	jsonEncoder := json.NewEncoder(payloadBuffer)
	err = jsonEncoder.Encode(rpcR)
	if err != nil {
		return
	}

	zap.L().With(zap.String("request", rpcR.Method), zap.String("params", fmt.Sprintf("%v", params))).Debug("Registry: RPC Request")
	if r.debug {
		zap.L().With(zap.String("request", payloadBuffer.String())).Debug("Registry: RPC Request")
	}

	req, err := retryablehttp.NewRequest("POST", r.url, payloadBuffer)
	if err != nil {
		return
	}

	req.Header.Add("Content-Type", "application/json;charset=utf-8")
	req.Header.Add("Accept", "application/json")

	resp, err := r.doTimeoutRequest(time.NewTimer(time.Duration(r.timeout)*time.Second), req)
	if err != nil {
		zap.L().With(zap.Error(err)).Warn("Registry: RPC Failure")
		return
	}
	defer resp.Body.Close()

	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return
	}

	if r.debug {
		zap.L().With(zap.String("response", string(data))).Debug("Registry: RPC Response")
	}

	if err = json.Unmarshal(data, &rr); err != nil {
		return
	}

	if rr.Error != nil {
		return nil, *rr.Error
	}

	return
}
