package main

const configTemplate = `# Wicket Season Configuration
# ===========================
# This file defines the parameters for generating a cricket fixture list.

# Season defines the date range for group matches.
season:
  start_date: "2026-05-02"
  end_date: "2026-08-30"

  # Blackout dates are full days where no matches are scheduled on any ground.
  blackout_dates:
    - date: "2026-06-20"
      reason: "County finals day"

# Groups and their teams. Every team in a group plays the same format and
# team names must be unique across all groups.
groups:
  - name: North
    format: T20
    teams: [Foxes, Hawks, Owls, Wolves, Bears]
  - name: South
    format: T20
    teams: [Lions, Tigers, Eagles, Stags]
  - name: Veterans
    format: 40-over
    teams: [Oaks, Elms, Ashes, Pines]

# Grounds available for scheduling. A ground only hosts matches of its format.
#
# Reservations block a ground for a given date or date range.
# If 'times' is omitted or empty, the ground is blocked for the full day.
# If 'times' is provided, only those start times are blocked.
#
#   - date: "2026-05-04"
#     times: ["18:00"]
#     reason: "Junior nets"
#
#   - start_date: "2026-07-01"
#     end_date: "2026-07-07"
#     reason: "Square re-seeding"
grounds:
  - name: Riverside Oval
    format: T20
    reservations:
      - date: "2026-05-16"
        reason: "Club open day"
  - name: Mill Lane
    format: T20
  - name: Castle Park
    format: 40-over
    reservations:
      - start_date: "2026-07-01"
        end_date: "2026-07-07"
        reason: "Square re-seeding"

# Start times for each type of day, 24-hour format.
time_slots:
  weekday: ["18:00"]
  saturday: ["10:00", "14:30"]
  sunday: ["11:00"]

  # Holiday dates use Sunday start times.
  holiday_dates:
    - "2026-05-25"

# Strategy determines how group matches are generated.
# "round_robin" plays every group opponent once.
# "double_round_robin" plays every group opponent twice, sides swapped.
strategy: round_robin

# Conflicts keep two teams apart, usually because they share players.
# same_slot: never in the same slot, playing or umpiring.
# same_day: never playing on the same date.
conflicts:
  - teams: [Foxes, Lions]
    level: same_day
  - teams: [Hawks, Oaks]
    level: same_slot

# Team blackouts are dates a team cannot play.
blackouts:
  - team: Owls
    dates: ["2026-06-06", "2026-06-07"]
    reason: "Tour"

# Umpiring assigns one team of the match's format to umpire each group match.
# Leave pool empty to use every team.
umpiring:
  enabled: true
  pool: []

# Expected matches per team. When set, fairness compares each team's progress
# towards its total instead of raw counts. Omit to use raw counts.
# expected_matches:
#   Foxes: 4

# Knockout stage seeded from the group tables.
knockout:
  format: T20
  qualifiers_per_group: 2
  start_date: "2026-08-15"
`
