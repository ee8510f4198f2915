package text_test

import (
	"context"
	"fmt"

	"github.com/walteh/rewriterc/pkg/text"
)

func ExampleChain_Apply() {
	chain, err := text.Compile([]text.Rule{
		{
			Name:    "inactive-button",
			Pattern: `bg-gray-100\s+text-gray-(\d+)(?!\d|\s+dark:)`,
			Replace: `bg-gray-100 dark:bg-gray-700 text-gray-\1 dark:text-gray-300`,
		},
		{
			Name:    "hover",
			Pattern: `hover:bg-gray-200(?!\s+dark:hover)`,
			Replace: "hover:bg-gray-200 dark:hover:bg-gray-600",
		},
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	content := []byte(`<button className="bg-gray-100 text-gray-700 hover:bg-gray-200">`)

	result, err := chain.Apply(context.Background(), "Transaction.jsx", content)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Modified: %s\n", result.ModifiedContent)
	fmt.Printf("Changes: %d\n", result.ReplacementCount)

	// running again finds nothing left to do
	again, _ := chain.Apply(context.Background(), "Transaction.jsx", result.ModifiedContent)
	fmt.Printf("Second run changes: %d\n", again.ReplacementCount)

	// Output:
	// Modified: <button className="bg-gray-100 dark:bg-gray-700 text-gray-700 dark:text-gray-300 hover:bg-gray-200 dark:hover:bg-gray-600">
	// Changes: 2
	// Second run changes: 0
}

func ExampleNormalizeTemplate() {
	tmpl, _ := text.NormalizeTemplate(`text-gray-\1 \g<shade>`)
	fmt.Println(tmpl)

	// Output:
	// text-gray-${1} ${shade}
}
