// Package telemetry provides observability instrumentation for Aviary.
//
// The package integrates structured logging (zerolog), distributed tracing
// (OpenTelemetry), and metrics (Prometheus) behind a unified Telemetry type.
//
// # Usage
//
// Initialize telemetry at application startup:
//
//	cfg := telemetry.DefaultConfig()
//	cfg.ServiceVersion = version
//
//	tel, err := telemetry.NewTelemetry(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tel.Shutdown(context.Background())
//
//	ctx = tel.WithContext(ctx)
//
// # Structured Logging
//
// The logger provides component-specific child loggers with context
// propagation; zerolog.Ctx works anywhere the telemetry context flows:
//
//	logger := tel.Logger.NewComponentLogger("classifier")
//	logger.WithPhase("reserve_cruise").Warn("user-supplied bounds discarded")
//
// # Tracing
//
// Preprocessing stages and post-solve accounting are instrumented as spans:
//
//	ctx, span := tel.Tracer.StartPreprocessSpan(ctx, missionName, eom)
//	defer span.End()
//	if err != nil {
//	    telemetry.RecordError(span, err)
//	}
//
// Supported exporters: stdout (development), otlp (production), none (testing).
//
// # Metrics
//
// Prometheus counters and histograms track preprocessing outcomes:
//
//   - aviary_missions_preprocessed_total{status,eom}
//   - aviary_preprocess_duration_seconds{eom}
//   - aviary_phases_classified_total{group,analytic}
//   - aviary_directives_emitted_total{kind}
//   - aviary_warnings_surfaced_total
//   - aviary_errors_by_class_total{class} / aviary_errors_by_code_total{code}
//   - aviary_policy_violations_total{policy,severity}
//
// The endpoint is exposed with tel.Metrics.StartServer when enabled; the
// preprocessing pass itself is near-instant, so metrics mostly matter for
// long-lived invocations such as watch mode.
package telemetry
