// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Aube

package store

const (
	memoryColumns = `
		id,
		title,
		description,
		image_path,
		epoch_day,
		tags_csv,
		is_favorite`

	saveMemory = `
		INSERT OR REPLACE INTO memories (
			id,
			title,
			description,
			image_path,
			epoch_day,
			tags_csv,
			is_favorite
		) VALUES (NULLIF(?, 0), ?, ?, NULLIF(?, ''), ?, ?, ?);`

	getMemoryByID = `
		SELECT ` + memoryColumns + `
		FROM memories
		WHERE id = ?
		LIMIT 1;`

	listAllMemories = `
		SELECT ` + memoryColumns + `
		FROM memories
		ORDER BY epoch_day DESC, id DESC;`

	listFavoriteMemories = `
		SELECT ` + memoryColumns + `
		FROM memories
		WHERE is_favorite = 1
		ORDER BY epoch_day DESC, id DESC;`

	searchMemories = `
		SELECT ` + memoryColumns + `
		FROM memories
		WHERE (? = '' OR title LIKE ? OR description LIKE ? OR tags_csv LIKE ?)
		ORDER BY epoch_day DESC, id DESC;`

	// Anniversary match first (same month and day regardless of year), most
	// recent otherwise.
	getTodayMemory = `
		SELECT ` + memoryColumns + `
		FROM memories
		ORDER BY
			CASE
				WHEN strftime('%m', epoch_day * 86400, 'unixepoch') = ?
				 AND strftime('%d', epoch_day * 86400, 'unixepoch') = ?
				THEN 1 ELSE 0
			END DESC,
			epoch_day DESC,
			id DESC
		LIMIT 1;`

	toggleFavoriteMemory = `
		UPDATE memories
		SET is_favorite = CASE WHEN is_favorite = 1 THEN 0 ELSE 1 END
		WHERE id = ?;`

	getFavoriteState = `
		SELECT is_favorite
		FROM memories
		WHERE id = ?;`

	deleteMemoryByID = `
		DELETE FROM memories
		WHERE id = ?;`
)
