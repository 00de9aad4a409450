package guards

import (
	"guardhook/internal/embedding"
	"guardhook/internal/guard"
	"guardhook/internal/vectorstore"
)

// Register populates registry with the guard roster in the original
// hook system's ordering: Bash-specific guards first, then
// file-operation guards, ending with the duplicate-prevention guard
// registered against write operations. Order matters: registration
// order is strict, and evaluation stops at the first block.
func Register(registry *guard.Registry, embed embedding.Client, store vectorstore.Client, dupCfg DuplicateConfig) {
	registry.Register(NewGitNoVerify(), "Bash")
	registry.Register(NewGitForcePush(), "Bash")
	registry.Register(NewGitCheckoutSafety(), "Bash")
	registry.Register(NewDockerRestart(), "Bash")
	registry.Register(NewDockerWithoutCompose(), "Bash")
	registry.Register(NewEnvBypass(), "Bash")
	registry.Register(NewPipInstallDiscipline(), "Bash")
	registry.Register(NewPythonVenvDiscipline(), "Bash")
	registry.Register(NewSQLInShell(), "Bash")
	registry.Register(NewLocationDependent(), "Bash")
	registry.Register(NewPrematureCompletion(), "Bash")
	registry.Register(NewFilesystemIntrusion(), "Bash")

	fileTools := []string{"Edit", "Write", "MultiEdit"}
	registry.Register(NewMockCodeDetection(), fileTools...)
	registry.Register(NewInstallScriptPrevention(), fileTools...)
	registry.Register(NewFilesystemIntrusion(), fileTools...)

	if embed != nil && store != nil {
		registry.Register(NewDuplicatePrevention(embed, store, dupCfg), fileTools...)
	}
}
