package effect

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/termsim/render"
)

// llmConfig describes the simulated language model run
type llmConfig struct {
	modelName    string
	numParams    float64
	maxEpochs    int
	batchSize    int
	seqLength    int
	learningRate float64
	totalTokens  float64
	numGPUs      int
	numNodes     int
	precision    string
}

var atlas70B = llmConfig{
	modelName:    "Atlas-70B",
	numParams:    70e9,
	maxEpochs:    3,
	batchSize:    2048,
	seqLength:    4096,
	learningRate: 1e-5,
	totalTokens:  4.5e12,
	numGPUs:      1024,
	numNodes:     128,
	precision:    "bfloat16",
}

const (
	llmCheckpointFreq = 100
	llmMetricsFreq    = 50
	llmIssueChance    = 0.08
	llmStepDelay      = 1500 * time.Millisecond
	llmCheckpointSave = 15 * time.Second
)

var llmInitSteps = []string{
	"Setting up DeepSpeed ZeRO-3 configuration",
	"Initializing model shards across nodes",
	"Compiling CUDA kernels for flash attention",
	"Loading tokenizer and vocabulary",
	"Preparing training dataset shards",
	"Optimizing memory access patterns",
	"Setting up gradient checkpointing",
	"Initializing optimizer states",
	"Configuring distributed data loaders",
	"Verifying node connectivity",
}

var llmIssues = []issueLevel{
	{styleRed, "ERROR", []string{
		"CUDA out of memory. Attempting gradient checkpointing...",
		"Detected NaN loss. Skipping bad gradient update...",
		"GPU thermal throttling detected. Reducing compute...",
		"NCCL connection timeout. Retrying communication...",
		"Memory fragmentation detected. Attempting defrag...",
		"Critical memory leak detected. Initiating emergency cleanup...",
		"Tensor core utilization suboptimal. Recompiling kernels...",
	}, [2]float64{3, 8}},
	{styleYellow, "WARN", []string{
		"Network throughput degraded. Reducing batch size...",
		"Communication overhead high. Adjusting all-reduce...",
		"Memory pressure detected. Increasing gradient accumulation...",
		"Node synchronization latency high. Adjusting timeout...",
		"Load imbalance detected. Rebalancing shards...",
	}, [2]float64{2, 5}},
	{styleBlue, "INFO", []string{
		"Auto-scaling group activated. Provisioning backup nodes...",
		"Dynamic voltage scaling engaged. Optimizing power/performance...",
		"Tensor parallelism reconfigured. Optimizing for locality...",
		"Pipeline schedule rebalanced. Adjusting micro-batches...",
	}, [2]float64{1, 3}},
}

var llmGauges = []gauge{
	{"GPU Util", 85, 99, 100, "%"},
	{"Temperature", 65, 85, 100, "°C"},
	{"Power", 275, 400, 500, "W"},
	{"Memory", 65, 78, 80, "GB/80GB"},
	{"Network BW", 20, 25, 25, "GB/s"},
	{"NVLink", 80, 95, 100, "%"},
	{"PCIe Util", 70, 90, 100, "%"},
	{"Fan Speed", 70, 100, 100, "%"},
}

var llmInsights = []insight{
	{styleGreen, fixed("[✓] Attention patterns stabilizing across nodes"), 0.2},
	{styleGreen, fixed("[✓] Token embeddings converging rapidly"), 0.2},
	{styleYellow, func(b *base) string { return fmt.Sprintf("[!] Gradient noise scale: %.2f", b.uniform(0.8, 1.2)) }, 0.3},
	{styleGreen, fixed("[✓] Detected potential emergent abilities"), 0.1},
	{styleBlue, fixed("[i] Layer-wise gradients balanced"), 0.2},
	{styleYellow, func(b *base) string { return fmt.Sprintf("[!] Activation sparsity: %.1f%%", b.uniform(65, 75)) }, 0.3},
}

// llmMetrics is one sample of the loss curve
type llmMetrics struct {
	trainLoss  float64
	valLoss    float64
	perplexity float64
}

type llmPhase uint8

const (
	llmIntro llmPhase = iota
	llmTraining
	llmComplete
)

// llmEffect replays a distributed language model training log
type llmEffect struct {
	base
	cfg   llmConfig
	runID string

	tokensPerStep float64
	totalSteps    int
	stepsPerEpoch int

	phase      llmPhase
	intro      intro
	trainStart uint64

	epoch, step int
	tokensSeen  float64
	best        float64
	last        llmMetrics
}

func newLLM(cfg Config) *llmEffect {
	e := &llmEffect{
		base: newBase(cfg),
		cfg:  atlas70B,
		best: math.Inf(1),
	}
	e.tokensPerStep = float64(e.cfg.batchSize * e.cfg.numGPUs * e.cfg.seqLength)
	e.totalSteps = int(e.cfg.totalTokens / e.tokensPerStep)
	e.stepsPerEpoch = e.totalSteps / e.cfg.maxEpochs

	// Seeded, so reruns with the same seed report the same run
	if id, err := uuid.NewRandomFromReader(e.rng); err == nil {
		e.runID = id.String()
	}

	e.intro = intro{
		steps:       llmInitSteps,
		style:       styleBlue,
		barWidth:    40,
		stepDur:     5 * time.Second,
		retryChance: 0.3,
		retryDur:    3 * time.Second,
		done:        "[+] Environment initialized - Beginning training",
		doneDur:     2 * time.Second,
	}

	c := e.cfg
	printBox(&e.con, c.modelName+" Training Pipeline", append([]string{"[Model Configuration]"}, kvRows([]kv{
		{"Run ID", e.runID},
		{"Parameters", fmt.Sprintf("%s (%.2e)", formatNumber(c.numParams), c.numParams)},
		{"Context Length", fmt.Sprint(c.seqLength)},
		{"Training Tokens", formatNumber(c.totalTokens)},
		{"Hardware", fmt.Sprintf("%d A100 80GB GPUs (%d nodes)", c.numGPUs, c.numNodes)},
		{"Precision", c.precision + " with ZeRO-3"},
		{"Global Batch Size", fmt.Sprint(c.batchSize * c.numGPUs)},
		{"Learning Rate", formatFloat(c.learningRate)},
		{"Architecture", "Decoder-only Transformer"},
		{"Position Embedding", "Rotary"},
		{"Activation", "SwiGLU"},
	})...), styleGreen.Bold())
	e.con.println("[*] Initializing training environment...", styleYellow)
	return e
}

func (e *llmEffect) NextFrame() render.Frame {
	e.advance(e.script)
	f := e.emit()
	e.tick++
	return f
}

func (e *llmEffect) script() {
	switch e.phase {
	case llmIntro:
		if e.intro.advance(&e.base) {
			e.phase = llmTraining
			e.trainStart = e.tick
			e.trainStep()
		}
	case llmTraining:
		e.trainStep()
	case llmComplete:
	}
}

// metrics samples the loss curve at progress measured in epochs
func (e *llmEffect) metrics(progress float64) llmMetrics {
	train := 2.8*math.Exp(-progress*1.2) + e.uniform(0.01, 0.03)
	return llmMetrics{
		trainLoss:  train,
		valLoss:    train + e.uniform(0.02, 0.08),
		perplexity: math.Exp(train),
	}
}

func (e *llmEffect) trainStep() {
	if e.chance(llmIssueChance) {
		e.con.commit()
		line, delay := e.issue(llmIssues)
		e.con.print(line)
		e.signal(render.CueAlert)
		e.sleepSeconds(delay * 2)
	}
	e.then(e.stepBody)
}

func (e *llmEffect) stepBody() {
	e.tokensSeen += e.tokensPerStep
	total := e.processed()
	progress := float64(e.epoch) + float64(e.step)/float64(e.stepsPerEpoch)
	m := e.metrics(progress)
	e.last = m
	e.best = math.Min(e.best, m.trainLoss)

	elapsed := e.since(e.trainStart).Seconds()
	if elapsed <= 0 {
		elapsed = e.interval.Seconds()
	}
	tps := total / elapsed
	eta := (e.cfg.totalTokens - total) / tps

	e.con.setStatus(render.Styled(fmt.Sprintf("Step [%5d/%d] | Loss: %.4f | Tokens: %s | %s/sec | ETA: %s",
		e.step, e.stepsPerEpoch, m.trainLoss, formatNumber(total), formatNumber(tps), formatClock(eta)), styleCyan))
	e.signal(render.CueKey)

	epoch, step := e.epoch, e.step
	if step%llmCheckpointFreq == 0 && step > 0 {
		e.con.commit()
		e.con.println(fmt.Sprintf("[+] Saving checkpoint at step %d...", step), styleGreen)
		e.sleep(llmCheckpointSave)
		e.then(func() {
			e.con.println(fmt.Sprintf("[+] Checkpoint saved to: /checkpoints/atlas70b/epoch_%d_step_%d/", epoch, step), styleGreen)
			e.signal(render.CueChime)
		})
	}

	e.then(func() {
		if step%llmMetricsFreq == 0 {
			e.printMetrics(m, total, tps, progress)
		}
		e.sleep(llmStepDelay)
		e.nextStep()
	})
}

func (e *llmEffect) nextStep() {
	e.step++
	if e.step < e.stepsPerEpoch {
		return
	}
	e.step = 0
	e.epoch++
	e.tokensSeen = 0
	if e.epoch >= e.cfg.maxEpochs {
		e.con.commit()
		e.con.blank()
		e.con.println(fmt.Sprintf("[+] Training complete - %s tokens processed", formatNumber(e.cfg.totalTokens)), styleGreen.Bold())
		e.signal(render.CueChime)
		e.phase = llmComplete
	}
}

// processed counts tokens across finished epochs plus the current one
func (e *llmEffect) processed() float64 {
	return e.tokensSeen + float64(e.epoch*e.stepsPerEpoch)*e.tokensPerStep
}

func (e *llmEffect) printMetrics(m llmMetrics, total, tps, progress float64) {
	e.con.commit()
	e.con.blank()
	e.printBlock(styleGreen,
		strings.Repeat("=", 100),
		fmt.Sprintf("[Training Progress] %s/%s tokens processed", formatNumber(total), formatNumber(e.cfg.totalTokens)))
	e.printBlock(styleYellow,
		"Training Metrics:",
		fmt.Sprintf("    Loss: %.4f (Best: %.4f)", m.trainLoss, e.best),
		fmt.Sprintf("    Perplexity: %.2f", m.perplexity),
		fmt.Sprintf("    Grad Norm: %.3f", e.uniform(0.1, 1.0)),
		fmt.Sprintf("    Tokens/Second: %s", formatNumber(tps)))
	e.printBlock(styleCyan,
		"Validation Metrics:",
		fmt.Sprintf("    Loss: %.4f", m.valLoss),
		fmt.Sprintf("    Perplexity: %.2f", math.Exp(m.valLoss)),
		fmt.Sprintf("    Next Token Accuracy: %.2f%%", 50+e.uniform(0, 15)))
	e.printBlock(styleMagenta, "System State:")
	e.printBlock(styleMagenta, e.gaugeLines(llmGauges)...)
	e.printBlock(styleBlue,
		"Training State:",
		fmt.Sprintf("    Learning Rate: %.2e", e.cfg.learningRate*math.Pow(0.95, progress)),
		fmt.Sprintf("    Active Nodes: %d/%d", e.cfg.numNodes-e.randint(0, 3), e.cfg.numNodes),
		fmt.Sprintf("    Global Batch Utilization: %.1f%%", e.uniform(92, 99.5)),
		fmt.Sprintf("    Grad Scaling: %d", 1<<e.randint(10, 15)),
		fmt.Sprintf("    Node Sync Rate: %.1f%%", e.uniform(95, 99.9)))
	e.printInsights("Training Insights:", llmInsights, 2)
}

// Summary reports the run as it stood when interrupted
func (e *llmEffect) Summary() []render.Line {
	out := []render.Line{nil, render.Styled("[!] Training interrupted", styleRed.Bold()), nil}
	if e.phase == llmIntro {
		return append(out, render.Styled("Training had not started.", styleYellow))
	}

	runtime := e.since(e.trainStart).Seconds()
	if runtime <= 0 {
		runtime = e.interval.Seconds()
	}
	processed := e.processed()
	lines := []string{
		"Training Summary:",
		strings.Repeat("=", 50),
		"- Run ID: " + e.runID,
		"- Total runtime: " + formatClock(runtime),
		fmt.Sprintf("- Tokens processed: %s (%.1f%% of target)", formatNumber(processed), processed/e.cfg.totalTokens*100),
		fmt.Sprintf("- Final loss: %.4f (Best: %.4f)", e.last.trainLoss, e.best),
		fmt.Sprintf("- Average throughput: %s tokens/second", formatNumber(processed/runtime)),
		fmt.Sprintf("- Checkpoints saved: %d", (e.epoch*e.stepsPerEpoch+e.step)/llmCheckpointFreq),
		fmt.Sprintf("- Model size: %s parameters", formatNumber(e.cfg.numParams)),
		fmt.Sprintf("- Node stability: %d%%", e.randint(94, 99)),
		fmt.Sprintf("- Peak memory utilization: %.1f%%", e.uniform(90, 98)),
		fmt.Sprintf("- Average GPU utilization: %.1f%%", e.uniform(92, 98)),
		fmt.Sprintf("- Total power consumed: %.1f kWh", e.uniform(250, 350)),
		fmt.Sprintf("- Network data transferred: %sB", formatNumber(e.uniform(1e15, 2e15))),
	}
	for _, l := range lines {
		out = append(out, render.Styled(l, styleYellow))
	}
	return out
}
