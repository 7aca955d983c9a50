package solbc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/domain"
)

const (
	simulationFailedMessage = "Transaction simulation failed"
	blockhashNotFound       = "Blockhash not found"
)

// SimulationError: отказ preflight-симуляции. Транзакция в сеть не попала.
type SimulationError struct {
	Code             int
	Message          string
	Logs             []string
	InstructionError interface{}
	// ProgramError: последняя строка с ошибкой из логов программы, если нашлась.
	ProgramError string
}

func (e *SimulationError) Error() string {
	if e.ProgramError != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.ProgramError)
	}
	return e.Message
}

func (e *SimulationError) Unwrap() error {
	return domain.ErrExecutionRejected
}

// ErrorAnalyzer provides methods to analyze Solana RPC errors
type ErrorAnalyzer struct {
	logger *zap.Logger
}

// NewErrorAnalyzer creates a new ErrorAnalyzer instance
func NewErrorAnalyzer(logger *zap.Logger) *ErrorAnalyzer {
	return &ErrorAnalyzer{
		logger: logger.Named("error-analyzer"),
	}
}

// Classify оборачивает ошибку RPC в одну из доменных категорий:
// отказ симуляции -> ErrExecutionRejected, устаревший blockhash -> ErrStaleAssembly,
// всё остальное -> ErrNetworkFailure.
func (ea *ErrorAnalyzer) Classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var rpcErr *jsonrpc.RPCError
	if !errors.As(err, &rpcErr) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrNetworkFailure, err)
	}

	analysis := ea.AnalyzeRPCError(rpcErr)
	if stale, _ := analysis["blockhash_not_found"].(bool); stale {
		return fmt.Errorf("%s: %w: blockhash not found", op, domain.ErrStaleAssembly)
	}
	if failed, _ := analysis["simulation_failed"].(bool); failed {
		simErr := &SimulationError{
			Code:             rpcErr.Code,
			Message:          rpcErr.Message,
			InstructionError: analysis["instruction_error"],
		}
		if logs, ok := analysis["logs"].([]string); ok {
			simErr.Logs = logs
			simErr.ProgramError = programErrorFromLogs(logs)
		}
		ea.logger.Warn("Preflight simulation failed",
			zap.String("message", rpcErr.Message),
			zap.String("program_error", simErr.ProgramError),
			zap.Strings("logs", simErr.Logs))
		ea.logger.Debug("Simulation error analysis",
			zap.String("op", op),
			zap.String("analysis", ea.FormatErrorAnalysis(analysis)))
		return fmt.Errorf("%s: %w", op, simErr)
	}

	return fmt.Errorf("%s: %w: %w", op, domain.ErrNetworkFailure, err)
}

// AnalyzeRPCError analyzes a jsonrpc.RPCError and extracts detailed information
func (ea *ErrorAnalyzer) AnalyzeRPCError(err error) map[string]interface{} {
	if err == nil {
		return map[string]interface{}{
			"error": "No error provided",
		}
	}

	var rpcErr *jsonrpc.RPCError
	if !errors.As(err, &rpcErr) {
		result := map[string]interface{}{
			"type":    "generic_error",
			"message": err.Error(),
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			result["context"] = true
		}
		return result
	}

	result := map[string]interface{}{
		"type":    "rpc_error",
		"code":    rpcErr.Code,
		"message": rpcErr.Message,
	}

	if strings.Contains(rpcErr.Message, blockhashNotFound) {
		result["blockhash_not_found"] = true
	}

	if strings.Contains(rpcErr.Message, simulationFailedMessage) {
		result["simulation_failed"] = true

		if dataMap, ok := rpcErr.Data.(map[string]interface{}); ok {
			if rawLogs, ok := dataMap["logs"].([]interface{}); ok {
				logs := make([]string, 0, len(rawLogs))
				for _, entry := range rawLogs {
					if s, ok := entry.(string); ok {
						logs = append(logs, s)
					}
				}
				result["logs"] = logs
			}

			if instrErr, ok := dataMap["err"]; ok && instrErr != nil {
				result["instruction_error"] = instrErr
				if s, ok := instrErr.(string); ok && s == "BlockhashNotFound" {
					result["blockhash_not_found"] = true
				}
			}
		}
	}

	return result
}

// programErrorFromLogs ищет последнюю строку с описанием ошибки программы.
// Example: "Program log: Error: insufficient funds"
func programErrorFromLogs(logs []string) string {
	for i := len(logs) - 1; i >= 0; i-- {
		line := logs[i]
		if idx := strings.Index(line, "Program log: Error:"); idx >= 0 {
			return strings.TrimSpace(line[idx+len("Program log: Error:"):])
		}
	}
	for i := len(logs) - 1; i >= 0; i-- {
		if strings.Contains(logs[i], " failed: ") {
			parts := strings.SplitN(logs[i], " failed: ", 2)
			return strings.TrimSpace(parts[1])
		}
	}
	return ""
}

// FormatErrorAnalysis formats the error analysis for logging or display
func (ea *ErrorAnalyzer) FormatErrorAnalysis(analysis map[string]interface{}) string {
	jsonBytes, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error formatting analysis: %v", err)
	}
	return string(jsonBytes)
}
