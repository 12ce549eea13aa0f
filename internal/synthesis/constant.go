package synthesis

// Role names, used in prompts and error reporting.
const (
	RolePlanner       = "planner"
	RoleStepGenerator = "step_generator"
	RoleOptimizer     = "optimizer"
)

const synthesisTemperature = 0.2

const promptPlanner = `You are a task planner for a command automation system.
Break the user's request into a short ordered outline of concrete tasks.

User request: %q
Detected intent: %s

Return ONLY a JSON array, no prose:
[{"title": "short name", "goal": "what this task must achieve"}]`

const promptStepGenerator = `You are a step generator for a command automation system.
Expand each outline item into one or more executable steps.

User request: %q

Outline:
%s

Allowed verbs: create_file, read_file, append_file, move_file, copy_file,
delete_file, list_dir, make_dir, run_command.

Return ONLY a JSON array of steps, no prose:
[{"id": "unique_snake_case", "verb": "...", "target": "file or binary",
  "args": ["..."], "content": "file payload if any",
  "depends_on": ["earlier_step_id"], "timeout": "10s", "max_attempts": 2}]

Dependencies must reference step ids from this same array and must not form
a cycle.`

const promptOptimizer = `You are a plan optimizer for a command automation system.
Merge redundant steps and reorder where dependencies allow. Keep ids stable
for steps you keep. Do not invent new work.

Steps:
%s

Return ONLY the optimized JSON array of steps in the same schema. If no
changes are useful, return the array unchanged.`
